package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/ledger"
	"coinstore/internal/models"
	"coinstore/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// GameBalance compares a game's cached balance with both ledger formulas.
// Drift is TotalCoins minus NetCoins and is zero when Balance Sync kept up.
type GameBalance struct {
	models.Game
	Totals               ledger.Totals   `json:"totals"`
	NetCoins             decimal.Decimal `json:"net_coins"`
	NetCoinsWithRecharge decimal.Decimal `json:"net_coins_with_recharge"`
	Drift                decimal.Decimal `json:"drift"`
}

type GameService struct {
	games   *repository.GameRepository
	entries *repository.EntryRepository
	audit   auditor
}

func NewGameService(games *repository.GameRepository, entries *repository.EntryRepository, auditRepo *repository.AuditLogRepository, log *logrus.Logger) *GameService {
	return &GameService{games: games, entries: entries, audit: auditor{repo: auditRepo, log: log}}
}

func (s *GameService) List(ctx context.Context) ([]models.Game, error) {
	return s.games.List(ctx)
}

func (s *GameService) Get(ctx context.Context, id uint) (*models.Game, error) {
	return s.games.GetByID(ctx, id)
}

// Create registers a game. Its cached balance starts from the entries already
// recorded under that name so late registration does not cause drift.
func (s *GameService) Create(ctx context.Context, actor Actor, name string) (*models.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name", "required")
	}
	history, err := s.entries.FindAll(ctx, ledger.Filter{GameName: name})
	if err != nil {
		return nil, err
	}
	g := &models.Game{Name: name, TotalCoins: ledger.Balance(history)}
	if err := s.games.Create(ctx, g); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, "game.create", "game", gameKey(g.ID), map[string]string{"name": g.Name})
	return g, nil
}

func (s *GameService) Rename(ctx context.Context, actor Actor, id uint, name string) (*models.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name", "required")
	}
	if err := s.games.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, "game.rename", "game", gameKey(id), map[string]string{"name": name})
	return s.games.GetByID(ctx, id)
}

// Delete removes a game that has no recorded entries.
func (s *GameService) Delete(ctx context.Context, actor Actor, id uint) error {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return err
	}
	_, n, err := s.entries.List(ctx, ledger.Filter{GameName: g.Name}, repository.Page{Page: 1, Limit: 1})
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	if err := s.games.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.record(ctx, actor, "game.delete", "game", gameKey(id), map[string]string{"name": g.Name})
	return nil
}

// Recharge records a manual coin top-up. date defaults to today.
func (s *GameService) Recharge(ctx context.Context, actor Actor, id uint, amount decimal.Decimal, date string) (*models.Game, error) {
	if !amount.IsPositive() {
		return nil, domain.Invalid("amount", "must be greater than zero")
	}
	if date == "" {
		date = time.Now().Format(domain.DateLayout)
	} else if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, domain.Invalid("date", "must be YYYY-MM-DD")
	}
	if err := s.games.Recharge(ctx, id, amount, date); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, "game.recharge", "game", gameKey(id), map[string]string{"amount": amount.String(), "date": date})
	return s.games.GetByID(ctx, id)
}

// gameKey is the audit resource id for a game.
func gameKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Balances reports every registered game's totals, both balance formulas and drift.
// The filter narrows the totals; drift always compares against full history.
func (s *GameService) Balances(ctx context.Context, f ledger.Filter) ([]GameBalance, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	games, err := s.games.List(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.entries.FindAll(ctx, ledger.Filter{})
	if err != nil {
		return nil, err
	}
	var filtered []models.GameEntry
	for i := range all {
		if f.Match(&all[i]) {
			filtered = append(filtered, all[i])
		}
	}
	full := indexTotals(ledger.SummarizeByGame(all))
	window := indexTotals(ledger.SummarizeByGame(filtered))

	out := make([]GameBalance, 0, len(games))
	for _, g := range games {
		history := full[g.Name]
		net := ledger.NetCoins(history)
		totals := window[g.Name]
		out = append(out, GameBalance{
			Game:                 g,
			Totals:               totals,
			NetCoins:             net,
			NetCoinsWithRecharge: ledger.NetCoinsWithRecharge(history, g.CoinsRecharged),
			Drift:                g.TotalCoins.Sub(net),
		})
	}
	return out, nil
}

// ByGame returns per-game totals for entries matching f, including names with no registered game.
func (s *GameService) ByGame(ctx context.Context, f ledger.Filter) ([]ledger.GameTotals, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	entries, err := s.entries.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return ledger.SummarizeByGame(entries), nil
}

func indexTotals(rows []ledger.GameTotals) map[string]ledger.Totals {
	out := make(map[string]ledger.Totals, len(rows))
	for _, r := range rows {
		out[r.GameName] = r.Totals
	}
	return out
}
