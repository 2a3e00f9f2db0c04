package service

import (
	"context"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/events"
	"coinstore/internal/ledger"
	"coinstore/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultReconcileTimeout = time.Minute

// ReconcileResult is the outcome for one game whose cached balance disagreed with its history.
type ReconcileResult struct {
	GameID   uint            `json:"game_id"`
	GameName string          `json:"game_name"`
	Cached   decimal.Decimal `json:"cached"`
	Computed decimal.Decimal `json:"computed"`
	Repaired bool            `json:"repaired"`
	Skipped  string          `json:"skipped,omitempty"`
}

// Reconciler recomputes each game's balance from its full entry history and
// repairs the cached value. Entry writes move history and the coins version in
// one transaction, and repairs are guarded by that version, so a game written
// to mid-pass is skipped and picked up by the next pass.
type Reconciler struct {
	games     *repository.GameRepository
	entries   *repository.EntryRepository
	publisher events.Publisher
	log       *logrus.Logger
	timeout   time.Duration
}

func NewReconciler(games *repository.GameRepository, entries *repository.EntryRepository, publisher events.Publisher, timeout time.Duration, log *logrus.Logger) *Reconciler {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if timeout <= 0 {
		timeout = defaultReconcileTimeout
	}
	return &Reconciler{games: games, entries: entries, publisher: publisher, log: log, timeout: timeout}
}

// Run reconciles once immediately and then every interval until ctx is done.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.runLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			r.log.Info("stopping balance reconciler")
			return
		case <-ticker.C:
			r.runLogged(ctx)
		}
	}
}

func (r *Reconciler) runLogged(ctx context.Context) {
	results, err := r.RunOnce(ctx)
	if err != nil {
		r.log.WithError(err).Error("balance reconciliation failed")
		return
	}
	repaired := 0
	for _, res := range results {
		if res.Repaired {
			repaired++
		}
	}
	r.log.WithFields(logrus.Fields{"drifted": len(results), "repaired": repaired}).Info("balance reconciliation completed")
}

// RunOnce checks every game and returns the ones that drifted.
func (r *Reconciler) RunOnce(ctx context.Context) ([]ReconcileResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	games, err := r.games.List(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]ReconcileResult, 0)
	for _, g := range games {
		select {
		case <-ctx.Done():
			r.log.Info("balance reconciliation cancelled")
			return results, ctx.Err()
		default:
		}

		history, err := r.entries.FindAll(ctx, ledger.Filter{GameName: g.Name})
		if err != nil {
			return results, err
		}
		computed := ledger.Balance(history)
		if computed.Equal(g.TotalCoins) {
			continue
		}

		res := ReconcileResult{GameID: g.ID, GameName: g.Name, Cached: g.TotalCoins, Computed: computed}
		fields := logrus.Fields{"game_name": g.Name, "cached": g.TotalCoins.String(), "computed": computed.String()}

		// a write between listing and now moves the version; leave it for the next pass
		current, err := r.games.GetByID(ctx, g.ID)
		if err != nil || current.CoinsVersion != g.CoinsVersion {
			res.Skipped = "concurrent write"
			r.log.WithFields(fields).Info("balance drift left for next pass")
			results = append(results, res)
			continue
		}
		ok, err := r.games.SetCoins(ctx, g.ID, g.CoinsVersion, computed)
		if err != nil {
			return results, err
		}
		if !ok {
			res.Skipped = "concurrent write"
			results = append(results, res)
			continue
		}
		res.Repaired = true
		results = append(results, res)
		r.log.WithFields(fields).Warn("balance drift repaired")

		ev := events.Event{Type: domain.EventBalanceRepair, EntityID: gameKey(g.ID), GameName: g.Name, OccurredAt: time.Now().UTC(), Data: res}
		if err := r.publisher.Publish(ctx, ev); err != nil {
			r.log.WithError(err).Warn("publish balance repair failed")
		}
	}
	return results, nil
}
