package handler

import (
	"net/http"

	"coinstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type GameHandler struct {
	svc        *service.GameService
	reconciler *service.Reconciler
	log        *logrus.Logger
}

func NewGameHandler(svc *service.GameService, reconciler *service.Reconciler, log *logrus.Logger) *GameHandler {
	return &GameHandler{svc: svc, reconciler: reconciler, log: log}
}

type GameRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

type RechargeRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date" binding:"omitempty,date"`
}

func (h *GameHandler) List(c *gin.Context) {
	games, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": games})
}

func (h *GameHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	g, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GameHandler) Create(c *gin.Context) {
	var req GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, err := h.svc.Create(c.Request.Context(), actorOf(c), req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// Update renames a game; its entries follow the new name.
func (h *GameHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, err := h.svc.Rename(c.Request.Context(), actorOf(c), id, req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GameHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actorOf(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GameHandler) Recharge(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, err := h.svc.Recharge(c.Request.Context(), actorOf(c), id, req.Amount, req.Date)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Reconcile runs one reconciliation pass now and reports the drifted games.
func (h *GameHandler) Reconcile(c *gin.Context) {
	results, err := h.reconciler.RunOnce(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": results})
}
