package handler

import (
	"fmt"
	"net/http"

	"coinstore/internal/domain"
	"coinstore/internal/ledger"
	"coinstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type EntryHandler struct {
	svc *service.EntryService
	log *logrus.Logger
}

func NewEntryHandler(svc *service.EntryService, log *logrus.Logger) *EntryHandler {
	return &EntryHandler{svc: svc, log: log}
}

// EntryRequest records a transaction. Date defaults to today.
type EntryRequest struct {
	Type          domain.EntryKind `json:"type" binding:"required,oneof=freeplay deposit redeem"`
	Mode          domain.EntryMode `json:"mode" binding:"omitempty,oneof=our_tag player_tag"`
	Method        domain.Method    `json:"method"`
	GameName      string           `json:"game_name" binding:"required,max=128"`
	PlayerName    string           `json:"player_name" binding:"max=128"`
	PlayerTag     string           `json:"player_tag" binding:"max=128"`
	AmountBase    decimal.Decimal  `json:"amount_base"`
	BonusRate     decimal.Decimal  `json:"bonus_rate"`
	TotalCashout  *decimal.Decimal `json:"total_cashout"`
	TotalPaid     decimal.Decimal  `json:"total_paid"`
	CashoutAmount decimal.Decimal  `json:"cashout_amount"`
	IsPending     *bool            `json:"is_pending"`
	Date          string           `json:"date" binding:"omitempty,date"`
}

func (r EntryRequest) input() ledger.EntryInput {
	date := r.Date
	if date == "" {
		date = today()
	}
	return ledger.EntryInput{
		Kind:          r.Type,
		Mode:          r.Mode,
		Method:        r.Method,
		GameName:      r.GameName,
		PlayerName:    r.PlayerName,
		PlayerTag:     r.PlayerTag,
		AmountBase:    r.AmountBase,
		BonusRate:     r.BonusRate,
		TotalCashout:  r.TotalCashout,
		TotalPaid:     r.TotalPaid,
		CashoutAmount: r.CashoutAmount,
		IsPending:     r.IsPending,
		Date:          date,
	}
}

// EntryPatchRequest changes only the fields present in the body.
type EntryPatchRequest struct {
	Type          *domain.EntryKind `json:"type" binding:"omitempty,oneof=freeplay deposit redeem"`
	Mode          *domain.EntryMode `json:"mode" binding:"omitempty,oneof=our_tag player_tag"`
	Method        *domain.Method    `json:"method"`
	GameName      *string           `json:"game_name" binding:"omitempty,max=128"`
	PlayerName    *string           `json:"player_name" binding:"omitempty,max=128"`
	PlayerTag     *string           `json:"player_tag" binding:"omitempty,max=128"`
	AmountBase    *decimal.Decimal  `json:"amount_base"`
	BonusRate     *decimal.Decimal  `json:"bonus_rate"`
	TotalCashout  *decimal.Decimal  `json:"total_cashout"`
	TotalPaid     *decimal.Decimal  `json:"total_paid"`
	CashoutAmount *decimal.Decimal  `json:"cashout_amount"`
	IsPending     *bool             `json:"is_pending"`
	Date          *string           `json:"date" binding:"omitempty,date"`
}

func (r EntryPatchRequest) patch() service.EntryPatch {
	return service.EntryPatch{
		Kind:          r.Type,
		Mode:          r.Mode,
		Method:        r.Method,
		GameName:      r.GameName,
		PlayerName:    r.PlayerName,
		PlayerTag:     r.PlayerTag,
		AmountBase:    r.AmountBase,
		BonusRate:     r.BonusRate,
		TotalCashout:  r.TotalCashout,
		TotalPaid:     r.TotalPaid,
		CashoutAmount: r.CashoutAmount,
		IsPending:     r.IsPending,
		Date:          r.Date,
	}
}

type PayoutRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *EntryHandler) List(c *gin.Context) {
	f, err := parseLedgerFilter(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	page := pageOf(c)
	entries, total, err := h.svc.List(c.Request.Context(), f, page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	paginated(c, entries, total, page)
}

func (h *EntryHandler) Get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EntryHandler) Create(c *gin.Context) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.svc.Create(c.Request.Context(), actorOf(c), req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *EntryHandler) Update(c *gin.Context) {
	var req EntryPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.svc.Update(c.Request.Context(), actorOf(c), c.Param("id"), req.patch())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EntryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), actorOf(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EntryHandler) ClearPending(c *gin.Context) {
	e, err := h.svc.ClearPending(c.Request.Context(), actorOf(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EntryHandler) Payout(c *gin.Context) {
	var req PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.svc.RecordPayout(c.Request.Context(), actorOf(c), c.Param("id"), req.Amount)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Export streams every entry matching the ledger filter as csv (default) or xlsx.
func (h *EntryHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "format must be csv or xlsx"})
		return
	}
	f, err := parseLedgerFilter(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	entries, err := h.svc.FindAll(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	filename := fmt.Sprintf("entries-%s.%s", today(), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if format == "xlsx" {
		c.Header("Content-Type", xlsxContentType)
		err = service.WriteEntriesXLSX(c.Writer, entries)
	} else {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		err = service.WriteEntriesCSV(c.Writer, entries)
	}
	if err != nil {
		h.log.WithError(err).WithField("format", format).Error("entry export failed")
	}
}
