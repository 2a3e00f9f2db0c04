package handler

import (
	"net/http"

	"coinstore/internal/domain"
	"coinstore/internal/repository"
	"coinstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const maxReceiptSize = 10 << 20

type PaymentHandler struct {
	svc *service.PaymentService
	log *logrus.Logger
}

func NewPaymentHandler(svc *service.PaymentService, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, log: log}
}

type PaymentRequest struct {
	Direction  string          `json:"direction" binding:"required,oneof=in out"`
	Method     domain.Method   `json:"method" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	PlayerName string          `json:"player_name" binding:"max=128"`
	GameName   string          `json:"game_name" binding:"max=128"`
	Note       string          `json:"note" binding:"max=512"`
	Date       string          `json:"date" binding:"omitempty,date"`
}

func (r PaymentRequest) input() service.PaymentInput {
	date := r.Date
	if date == "" {
		date = today()
	}
	return service.PaymentInput{
		Direction:  r.Direction,
		Method:     r.Method,
		Amount:     r.Amount,
		PlayerName: r.PlayerName,
		GameName:   r.GameName,
		Note:       r.Note,
		Date:       date,
	}
}

func paymentFilterOf(c *gin.Context) repository.PaymentFilter {
	return repository.PaymentFilter{
		Direction: c.Query("direction"),
		Method:    c.Query("method"),
		Username:  c.Query("username"),
		GameName:  c.Query("gameName"),
		DateFrom:  c.Query("dateFrom"),
		DateTo:    c.Query("dateTo"),
	}
}

func (h *PaymentHandler) List(c *gin.Context) {
	page := pageOf(c)
	list, total, err := h.svc.List(c.Request.Context(), paymentFilterOf(c), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	paginated(c, list, total, page)
}

func (h *PaymentHandler) Summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context(), paymentFilterOf(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), actorOf(c), req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) Update(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), actorOf(c), c.Param("id"), req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), actorOf(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadReceipt attaches a receipt image from the multipart "file" field.
func (h *PaymentHandler) UploadReceipt(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file required"})
		return
	}
	if file.Size > maxReceiptSize {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file too large"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not read file"})
		return
	}
	defer f.Close()

	p, err := h.svc.AttachReceipt(c.Request.Context(), actorOf(c), c.Param("id"), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
