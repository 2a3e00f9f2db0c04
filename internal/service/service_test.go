package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"coinstore/config"
	"coinstore/internal/database"
	"coinstore/internal/domain"
	"coinstore/internal/events"
	"coinstore/internal/logger"
	"coinstore/internal/models"
	"coinstore/internal/repository"
	"coinstore/internal/ws"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingFeed struct {
	mu     sync.Mutex
	all    []ws.Message
	direct map[string][]ws.Message
}

func (f *recordingFeed) BroadcastAll(msg ws.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.all = append(f.all, msg)
}

func (f *recordingFeed) BroadcastToUser(username string, msg ws.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.direct == nil {
		f.direct = map[string][]ws.Message{}
	}
	f.direct[username] = append(f.direct[username], msg)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type alertRecorder struct {
	ch chan string
}

func (a *alertRecorder) NotifyPendingRedemption(_ context.Context, e *models.GameEntry) {
	a.ch <- e.ID
}

type fixture struct {
	db        *gorm.DB
	games     *repository.GameRepository
	entries   *repository.EntryRepository
	users     *repository.UserRepository
	feed      *recordingFeed
	publisher *recordingPublisher
	alerts    *alertRecorder
	svc       *EntryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := database.NewTestDB(t)
	f := &fixture{
		db:        db,
		games:     repository.NewGameRepository(db),
		entries:   repository.NewEntryRepository(db),
		users:     repository.NewUserRepository(db),
		feed:      &recordingFeed{},
		publisher: &recordingPublisher{},
		alerts:    &alertRecorder{ch: make(chan string, 8)},
	}
	f.svc = NewEntryService(f.entries, repository.NewAuditLogRepository(db), f.publisher, f.feed, f.alerts, logger.Discard())
	return f
}

func (f *fixture) addGame(t *testing.T, name string) *models.Game {
	t.Helper()
	g := &models.Game{Name: name}
	require.NoError(t, f.games.Create(context.Background(), g))
	return g
}

func (f *fixture) balance(t *testing.T, name string) decimal.Decimal {
	t.Helper()
	g, err := f.games.GetByName(context.Background(), name)
	require.NoError(t, err)
	return g.TotalCoins
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

var (
	staff   = Actor{UserID: 2, Username: "ann", Role: domain.RoleStaff}
	manager = Actor{UserID: 1, Username: "boss", Role: domain.RoleManager}
)

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{
		AccessSecret:  "a",
		RefreshSecret: "r",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "test",
	}}
}
