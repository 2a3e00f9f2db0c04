package service

import (
	"context"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/ledger"
	"coinstore/internal/repository"
)

type DashboardOverview struct {
	Date          string                      `json:"date"`
	Counts        *repository.DashboardCounts `json:"counts"`
	UsersByRole   map[string]int64            `json:"users_by_role"`
	Today         *LedgerSummary              `json:"today"`
	Month         *LedgerSummary              `json:"month"`
	TodayPayments PaymentSummary              `json:"today_payments"`
}

type DashboardService struct {
	repo     *repository.DashboardRepository
	entries  *EntryService
	payments *PaymentService
}

func NewDashboardService(repo *repository.DashboardRepository, entries *EntryService, payments *PaymentService) *DashboardService {
	return &DashboardService{repo: repo, entries: entries, payments: payments}
}

// Overview returns headline counters and ledger summaries for the day and month containing now.
func (s *DashboardService) Overview(ctx context.Context, now time.Time) (*DashboardOverview, error) {
	today := now.Format(domain.DateLayout)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	counts, err := s.repo.Counts(ctx, today, dayStart)
	if err != nil {
		return nil, err
	}
	byRole, err := s.repo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	day, err := s.entries.Summary(ctx, ledger.Filter{Year: now.Year(), Month: int(now.Month()), Day: now.Day()})
	if err != nil {
		return nil, err
	}
	month, err := s.entries.Summary(ctx, ledger.Filter{Year: now.Year(), Month: int(now.Month())})
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.Summary(ctx, repository.PaymentFilter{DateFrom: today, DateTo: today})
	if err != nil {
		return nil, err
	}
	return &DashboardOverview{
		Date:          today,
		Counts:        counts,
		UsersByRole:   byRole,
		Today:         day,
		Month:         month,
		TodayPayments: payments,
	}, nil
}
