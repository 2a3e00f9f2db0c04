package handler

import (
	"net/http"

	"coinstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ScheduleHandler struct {
	svc *service.ScheduleService
	log *logrus.Logger
}

func NewScheduleHandler(svc *service.ScheduleService, log *logrus.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, log: log}
}

type ScheduleRequest struct {
	UserID    uint   `json:"user_id"`
	Date      string `json:"date" binding:"required,date"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Note      string `json:"note" binding:"max=512"`
}

func (r ScheduleRequest) input() service.ScheduleInput {
	return service.ScheduleInput{UserID: r.UserID, Date: r.Date, StartTime: r.StartTime, EndTime: r.EndTime, Note: r.Note}
}

func (h *ScheduleHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), c.Query("username"), c.Query("dateFrom"), c.Query("dateTo"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "user_id required"})
		return
	}
	s, err := h.svc.Create(c.Request.Context(), actorOf(c), req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.svc.Update(c.Request.Context(), actorOf(c), c.Param("id"), req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), actorOf(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
