package handler

import (
	"net/http"
	"time"

	"coinstore/internal/repository"
	"coinstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the dashboard, login history and audit trail views.
type AdminHandler struct {
	dashboard *service.DashboardService
	history   *repository.LoginHistoryRepository
	audit     *repository.AuditLogRepository
	log       *logrus.Logger
}

func NewAdminHandler(dashboard *service.DashboardService, history *repository.LoginHistoryRepository, audit *repository.AuditLogRepository, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, history: history, audit: audit, log: log}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	overview, err := h.dashboard.Overview(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *AdminHandler) LoginHistory(c *gin.Context) {
	success, err := queryBool(c, "success")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	page := pageOf(c)
	rows, total, err := h.history.List(c.Request.Context(), c.Query("username"), success, page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	paginated(c, rows, total, page)
}

// AuditLogs lists recorded writes, newest first, optionally for one resource.
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	page := pageOf(c)
	rows, total, err := h.audit.List(c.Request.Context(), c.Query("resource"), c.Query("resource_id"), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	paginated(c, rows, total, page)
}
