package service

import (
	"context"
	"io"
	"strings"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/models"
	"coinstore/internal/repository"
	"coinstore/pkg/cloudinary"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type PaymentInput struct {
	Direction  string
	Method     domain.Method
	Amount     decimal.Decimal
	PlayerName string
	GameName   string
	Note       string
	Date       string
}

func (in PaymentInput) validate() error {
	if in.Direction != domain.PaymentDirectionIn && in.Direction != domain.PaymentDirectionOut {
		return domain.Invalid("direction", "must be in or out")
	}
	if !in.Method.Valid() {
		return domain.Invalid("method", "must be one of cashapp, paypal, chime, venmo")
	}
	if !in.Amount.IsPositive() {
		return domain.Invalid("amount", "must be greater than zero")
	}
	if _, err := time.Parse(domain.DateLayout, in.Date); err != nil {
		return domain.Invalid("date", "must be YYYY-MM-DD")
	}
	return nil
}

// PaymentTotals sums one direction pair.
type PaymentTotals struct {
	In  decimal.Decimal `json:"in"`
	Out decimal.Decimal `json:"out"`
	Net decimal.Decimal `json:"net"`
}

func (t *PaymentTotals) add(p *models.CashPayment) {
	if p.Direction == domain.PaymentDirectionIn {
		t.In = t.In.Add(p.Amount)
	} else {
		t.Out = t.Out.Add(p.Amount)
	}
	t.Net = t.In.Sub(t.Out)
}

type PaymentSummary struct {
	PaymentTotals
	Count    int                             `json:"count"`
	ByMethod map[domain.Method]PaymentTotals `json:"by_method"`
}

// SummarizePayments totals cash in and out overall and per method.
func SummarizePayments(list []models.CashPayment) PaymentSummary {
	s := PaymentSummary{ByMethod: make(map[domain.Method]PaymentTotals, len(domain.Methods))}
	for _, m := range domain.Methods {
		s.ByMethod[m] = PaymentTotals{}
	}
	for i := range list {
		p := &list[i]
		s.add(p)
		t := s.ByMethod[p.Method]
		t.add(p)
		s.ByMethod[p.Method] = t
		s.Count++
	}
	return s
}

type PaymentService struct {
	repo   *repository.PaymentRepository
	cloud  cloudinary.Client
	folder string
	audit  auditor
	log    *logrus.Logger
}

// NewPaymentService wires receipts to cloud; a nil cloud disables receipt upload.
func NewPaymentService(repo *repository.PaymentRepository, cloud cloudinary.Client, folder string, auditRepo *repository.AuditLogRepository, log *logrus.Logger) *PaymentService {
	return &PaymentService{repo: repo, cloud: cloud, folder: folder, audit: auditor{repo: auditRepo, log: log}, log: log}
}

func (s *PaymentService) Create(ctx context.Context, actor Actor, in PaymentInput) (*models.CashPayment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &models.CashPayment{
		Direction:  in.Direction,
		Method:     in.Method,
		Amount:     in.Amount,
		PlayerName: strings.TrimSpace(in.PlayerName),
		GameName:   strings.TrimSpace(in.GameName),
		Note:       in.Note,
		Date:       in.Date,
		Username:   actor.Username,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, "payment.create", "cash_payment", p.ID, map[string]string{"direction": p.Direction, "amount": p.Amount.String()})
	return p, nil
}

func (s *PaymentService) Get(ctx context.Context, id string) (*models.CashPayment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PaymentService) Update(ctx context.Context, actor Actor, id string, in PaymentInput) (*models.CashPayment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleStaff && p.Username != actor.Username {
		return nil, domain.ErrForbidden
	}
	p.Direction = in.Direction
	p.Method = in.Method
	p.Amount = in.Amount
	p.PlayerName = strings.TrimSpace(in.PlayerName)
	p.GameName = strings.TrimSpace(in.GameName)
	p.Note = in.Note
	p.Date = in.Date
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, "payment.update", "cash_payment", p.ID, nil)
	return p, nil
}

func (s *PaymentService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.record(ctx, actor, "payment.delete", "cash_payment", id, nil)
	return nil
}

func (s *PaymentService) List(ctx context.Context, f repository.PaymentFilter, page repository.Page) ([]models.CashPayment, int64, error) {
	return s.repo.List(ctx, f, page)
}

func (s *PaymentService) Summary(ctx context.Context, f repository.PaymentFilter) (PaymentSummary, error) {
	list, _, err := s.repo.List(ctx, f, repository.Page{})
	if err != nil {
		return PaymentSummary{}, err
	}
	return SummarizePayments(list), nil
}

// AttachReceipt uploads a receipt image and stores its URL on the payment.
func (s *PaymentService) AttachReceipt(ctx context.Context, actor Actor, id string, file io.Reader) (*models.CashPayment, error) {
	if s.cloud == nil {
		return nil, domain.ErrUnconfigured
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	publicID := "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	url, _, err := s.cloud.UploadImage(ctx, file, s.folder+"/"+p.Date, publicID)
	if err != nil {
		return nil, err
	}
	old := p.ReceiptURL
	p.ReceiptURL = url
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if old != "" {
		if err := s.cloud.DeleteByURL(context.WithoutCancel(ctx), old); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"payment_id": p.ID, "url": old}).Warn("delete replaced receipt failed")
		}
	}
	s.audit.record(ctx, actor, "payment.receipt", "cash_payment", p.ID, nil)
	return p, nil
}
