package service

import (
	"context"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/events"
	"coinstore/internal/ledger"
	"coinstore/internal/models"
	"coinstore/internal/repository"
	"coinstore/internal/ws"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Feed pushes live updates to connected dashboards.
type Feed interface {
	BroadcastAll(msg ws.Message)
	BroadcastToUser(username string, msg ws.Message)
}

// PendingAlerter is told about redemptions that now owe a payout.
type PendingAlerter interface {
	NotifyPendingRedemption(ctx context.Context, e *models.GameEntry)
}

// EntryPatch changes only the non-nil fields of an entry.
type EntryPatch struct {
	Kind          *domain.EntryKind
	Mode          *domain.EntryMode
	Method        *domain.Method
	GameName      *string
	PlayerName    *string
	PlayerTag     *string
	AmountBase    *decimal.Decimal
	BonusRate     *decimal.Decimal
	TotalCashout  *decimal.Decimal
	TotalPaid     *decimal.Decimal
	CashoutAmount *decimal.Decimal
	IsPending     *bool
	Date          *string
}

// changesAmounts reports whether the patch touches anything pending status derives from.
func (p EntryPatch) changesAmounts() bool {
	return p.Kind != nil || p.Mode != nil || p.AmountBase != nil || p.TotalCashout != nil ||
		p.TotalPaid != nil || p.CashoutAmount != nil
}

func (p EntryPatch) apply(in *ledger.EntryInput) {
	if p.Kind != nil {
		in.Kind = *p.Kind
		if *p.Kind != domain.KindDeposit {
			in.BonusRate = decimal.Zero
			in.Mode = domain.ModeOurTag
			in.CashoutAmount = decimal.Zero
		}
	}
	if p.Mode != nil {
		in.Mode = *p.Mode
	}
	if p.Method != nil {
		in.Method = *p.Method
	}
	if p.GameName != nil {
		in.GameName = *p.GameName
	}
	if p.PlayerName != nil {
		in.PlayerName = *p.PlayerName
	}
	if p.PlayerTag != nil {
		in.PlayerTag = *p.PlayerTag
	}
	if p.AmountBase != nil {
		in.AmountBase = *p.AmountBase
	}
	if p.BonusRate != nil {
		in.BonusRate = *p.BonusRate
	}
	if p.TotalCashout != nil {
		in.TotalCashout = p.TotalCashout
	} else if p.AmountBase != nil || p.Kind != nil {
		// redemption cashout follows the amount unless set explicitly
		in.TotalCashout = nil
	}
	if p.TotalPaid != nil {
		in.TotalPaid = *p.TotalPaid
	}
	if p.CashoutAmount != nil {
		in.CashoutAmount = *p.CashoutAmount
	}
	if p.IsPending != nil {
		in.IsPending = p.IsPending
	} else if p.changesAmounts() {
		in.IsPending = nil
	}
	if p.Date != nil {
		in.Date = *p.Date
	}
}

// LedgerSummary is Summarize plus deposit revenue per method for the same filter.
type LedgerSummary struct {
	ledger.Totals
	RevenueByMethod map[domain.Method]decimal.Decimal `json:"revenue_by_method"`
}

// EntryService records ledger entries and keeps each game's cached balance in step.
// The entry write is authoritative. Balance sync shares its transaction, while
// audit, events, feed and alerts run after commit; all of them are best-effort
// and only logged on failure.
type EntryService struct {
	entries   *repository.EntryRepository
	audit     auditor
	publisher events.Publisher
	feed      Feed
	alerts    PendingAlerter
	log       *logrus.Logger
}

func NewEntryService(
	entries *repository.EntryRepository,
	auditRepo *repository.AuditLogRepository,
	publisher events.Publisher,
	feed Feed,
	alerts PendingAlerter,
	log *logrus.Logger,
) *EntryService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &EntryService{
		entries:   entries,
		audit:     auditor{repo: auditRepo, log: log},
		publisher: publisher,
		feed:      feed,
		alerts:    alerts,
		log:       log,
	}
}

func (s *EntryService) Get(ctx context.Context, id string) (*models.GameEntry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *EntryService) List(ctx context.Context, f ledger.Filter, page repository.Page) ([]models.GameEntry, int64, error) {
	if err := f.Validate(); err != nil {
		return nil, 0, err
	}
	return s.entries.List(ctx, f, page)
}

// FindAll returns every entry matching f, oldest first.
func (s *EntryService) FindAll(ctx context.Context, f ledger.Filter) ([]models.GameEntry, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.entries.FindAll(ctx, f)
}

func (s *EntryService) Create(ctx context.Context, actor Actor, in ledger.EntryInput) (*models.GameEntry, error) {
	e, err := ledger.BuildEntry(in)
	if err != nil {
		return nil, err
	}
	e.Username = actor.Username
	err = s.entries.WithBalances(ctx, func(entries *repository.EntryRepository, games *repository.GameRepository) error {
		if err := entries.Create(ctx, e); err != nil {
			return err
		}
		s.syncBalance(ctx, games, e.ID, ledger.CreateAdjustments(ledger.SnapshotOf(e)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, actor, domain.EventEntryCreated, e)
	if e.Kind == domain.KindRedeem && e.IsPending {
		s.alertPending(ctx, e)
	}
	return e, nil
}

func (s *EntryService) Update(ctx context.Context, actor Actor, id string, patch EntryPatch) (*models.GameEntry, error) {
	current, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(actor, current); err != nil {
		return nil, err
	}
	before := ledger.SnapshotOf(current)
	wasOwed := owesRedemption(current)

	in := ledger.InputOf(current)
	patch.apply(&in)
	next, err := ledger.BuildEntry(in)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.Username = current.Username
	next.CreatedAt = current.CreatedAt
	err = s.entries.WithBalances(ctx, func(entries *repository.EntryRepository, games *repository.GameRepository) error {
		if err := entries.Update(ctx, next); err != nil {
			return err
		}
		s.syncBalance(ctx, games, next.ID, ledger.UpdateAdjustments(before, ledger.SnapshotOf(next)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, actor, domain.EventEntryUpdated, next)
	if !wasOwed && owesRedemption(next) {
		s.alertPending(ctx, next)
	}
	return next, nil
}

func (s *EntryService) Delete(ctx context.Context, actor Actor, id string) error {
	current, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkOwner(actor, current); err != nil {
		return err
	}
	err = s.entries.WithBalances(ctx, func(entries *repository.EntryRepository, games *repository.GameRepository) error {
		if err := entries.Delete(ctx, id); err != nil {
			return err
		}
		s.syncBalance(ctx, games, id, ledger.DeleteAdjustments(ledger.SnapshotOf(current)))
		return nil
	})
	if err != nil {
		return err
	}
	s.afterWrite(ctx, actor, domain.EventEntryDeleted, current)
	return nil
}

// ClearPending settles an entry. Clearing an already settled entry changes nothing.
func (s *EntryService) ClearPending(ctx context.Context, actor Actor, id string) (*models.GameEntry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(actor, e); err != nil {
		return nil, err
	}
	if !ledger.ClearPending(e) {
		return e, nil
	}
	if err := s.entries.Update(ctx, e); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, actor, domain.EventPendingCleared, e)
	s.noticeSettled(e)
	return e, nil
}

// RecordPayout adds a partial or final payout to a redemption.
func (s *EntryService) RecordPayout(ctx context.Context, actor Actor, id string, amount decimal.Decimal) (*models.GameEntry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(actor, e); err != nil {
		return nil, err
	}
	if err := ledger.RecordPayout(e, amount); err != nil {
		return nil, err
	}
	if err := s.entries.Update(ctx, e); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, actor, domain.EventPayoutRecorded, e)
	if !e.IsPending {
		s.noticeSettled(e)
	}
	return e, nil
}

func (s *EntryService) Summary(ctx context.Context, f ledger.Filter) (*LedgerSummary, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	entries, err := s.entries.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return &LedgerSummary{
		Totals:          ledger.Summarize(entries, f),
		RevenueByMethod: ledger.RevenueByMethod(entries),
	}, nil
}

// Pending lists entries still owed, newest first. Empty username lists everyone's.
func (s *EntryService) Pending(ctx context.Context, username string) ([]ledger.PendingItem, error) {
	entries, err := s.entries.FindPending(ctx, username)
	if err != nil {
		return nil, err
	}
	return ledger.ListPending(entries, username), nil
}

func (s *EntryService) checkOwner(actor Actor, e *models.GameEntry) error {
	if actor.Role == domain.RoleStaff && e.Username != actor.Username {
		return domain.ErrForbidden
	}
	return nil
}

func owesRedemption(e *models.GameEntry) bool {
	out, ok := ledger.OutstandingOf(e)
	return ok && out.Kind == ledger.OutstandingRedemption
}

// syncBalance applies balance adjustments in the entry's transaction. Failures
// leave drift for the reconciler and never fail the request.
func (s *EntryService) syncBalance(ctx context.Context, games *repository.GameRepository, entryID string, adjs []ledger.Adjustment) {
	for _, adj := range adjs {
		fields := logrus.Fields{"entry_id": entryID, "game_name": adj.GameName, "delta": adj.Delta.String()}
		found, err := games.AdjustCoins(ctx, adj.GameName, adj.Delta)
		if err != nil {
			s.log.WithError(err).WithFields(fields).Error("balance sync failed")
			continue
		}
		if !found {
			s.log.WithFields(fields).Warn("balance sync skipped: game not found")
			continue
		}
		s.log.WithFields(fields).Debug("balance synced")
	}
}

func (s *EntryService) afterWrite(ctx context.Context, actor Actor, eventType string, e *models.GameEntry) {
	s.audit.record(ctx, actor, eventType, "game_entry", e.ID, map[string]interface{}{
		"type":         e.Kind,
		"game_name":    e.GameName,
		"amount_final": e.EffectiveAmount().String(),
	})

	ev := events.Event{
		Type:       eventType,
		EntityID:   e.ID,
		GameName:   e.GameName,
		Username:   actor.Username,
		OccurredAt: time.Now().UTC(),
		Data:       e,
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.log.WithError(err).WithField("event", eventType).Warn("publish ledger event failed")
	}

	if s.feed != nil {
		msg := ws.Message{Type: eventType, Data: e}
		s.feed.BroadcastAll(msg)
	}
}

// noticeSettled tells the entry's recorder directly that it no longer awaits payout.
func (s *EntryService) noticeSettled(e *models.GameEntry) {
	if s.feed == nil {
		return
	}
	s.feed.BroadcastToUser(e.Username, ws.Message{Type: "notice", Data: map[string]string{
		"entry_id": e.ID,
		"label":    e.PlayerLabel(),
		"text":     "pending entry settled",
	}})
}

func (s *EntryService) alertPending(ctx context.Context, e *models.GameEntry) {
	if s.alerts == nil {
		return
	}
	snapshot := *e
	go s.alerts.NotifyPendingRedemption(context.WithoutCancel(ctx), &snapshot)
}
