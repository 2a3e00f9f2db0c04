package handler

import (
	"net/http"

	"coinstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LedgerHandler serves the read-only aggregate views.
type LedgerHandler struct {
	entries *service.EntryService
	games   *service.GameService
	log     *logrus.Logger
}

func NewLedgerHandler(entries *service.EntryService, games *service.GameService, log *logrus.Logger) *LedgerHandler {
	return &LedgerHandler{entries: entries, games: games, log: log}
}

func (h *LedgerHandler) Summary(c *gin.Context) {
	f, err := parseLedgerFilter(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	sum, err := h.entries.Summary(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// Games returns per-game totals for the filter plus each registered game's balance report.
func (h *LedgerHandler) Games(c *gin.Context) {
	f, err := parseLedgerFilter(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ctx := c.Request.Context()
	totals, err := h.games.ByGame(ctx, f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	balances, err := h.games.Balances(ctx, f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": totals, "balances": balances})
}

func (h *LedgerHandler) Pending(c *gin.Context) {
	items, err := h.entries.Pending(c.Request.Context(), c.Query("username"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}
