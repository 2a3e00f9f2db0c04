package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coinstore/config"
	"coinstore/internal/database"
	"coinstore/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func (a *apiClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Discard()
	db := database.NewTestDB(t)
	require.NoError(t, database.SeedAdmin(db, &config.AdminConfig{Username: "admin", Password: "admin-pass"}, log))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "access",
			RefreshSecret: "refresh",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
			Issuer:        "test",
		},
		Cloudinary: config.CloudinaryConfig{Folder: "receipts"},
	}
	s := Setup(cfg, db, Deps{Log: log})
	t.Cleanup(s.Close)
	return s
}

func login(t *testing.T, engine *gin.Engine, username, password string) *apiClient {
	t.Helper()
	c := &apiClient{t: t, engine: engine}
	w := c.do(http.MethodPost, "/api/v1/auth/login", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &resp)
	c.token = resp.AccessToken
	return c
}

func TestLedgerFlow(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s.Engine, "admin", "admin-pass")

	w := admin.do(http.MethodPost, "/api/v1/games", gin.H{"name": "X"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var game struct {
		ID uint `json:"id"`
	}
	decode(t, w, &game)

	w = admin.do(http.MethodPost, "/api/v1/entries", gin.H{
		"type": "deposit", "method": "cashapp", "game_name": "X", "player_name": "p",
		"amount_base": 100, "bonus_rate": 10, "date": "2024-08-05",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var deposit struct {
		ID          string          `json:"id"`
		AmountFinal decimal.Decimal `json:"amount_final"`
	}
	decode(t, w, &deposit)
	require.True(t, decimal.NewFromInt(110).Equal(deposit.AmountFinal))

	w = admin.do(http.MethodPost, "/api/v1/entries", gin.H{
		"type": "redeem", "method": "venmo", "game_name": "X", "player_tag": "$w",
		"amount_base": "40", "date": "2024-08-06",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = admin.do(http.MethodGet, "/api/v1/ledger/summary?year=2024&month=8", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sum struct {
		TotalDeposit    decimal.Decimal            `json:"total_deposit"`
		TotalRedeem     decimal.Decimal            `json:"total_redeem"`
		TotalCoin       decimal.Decimal            `json:"total_coin"`
		RevenueByMethod map[string]decimal.Decimal `json:"revenue_by_method"`
	}
	decode(t, w, &sum)
	require.True(t, decimal.NewFromInt(110).Equal(sum.TotalDeposit))
	require.True(t, decimal.NewFromInt(40).Equal(sum.TotalRedeem))
	require.True(t, decimal.NewFromInt(-70).Equal(sum.TotalCoin))
	require.True(t, decimal.NewFromInt(100).Equal(sum.RevenueByMethod["cashapp"]))

	w = admin.do(http.MethodGet, fmt.Sprintf("/api/v1/games/%d", game.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var g struct {
		TotalCoins decimal.Decimal `json:"total_coins"`
	}
	decode(t, w, &g)
	require.True(t, decimal.NewFromInt(-70).Equal(g.TotalCoins))

	w = admin.do(http.MethodGet, "/api/v1/ledger/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending struct {
		Total int `json:"total"`
	}
	decode(t, w, &pending)
	require.Equal(t, 1, pending.Total)

	w = admin.do(http.MethodDelete, "/api/v1/entries/"+deposit.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = admin.do(http.MethodGet, fmt.Sprintf("/api/v1/games/%d", game.ID), nil)
	decode(t, w, &g)
	require.True(t, decimal.NewFromInt(40).Equal(g.TotalCoins))

	w = admin.do(http.MethodGet, "/api/v1/entries/export?format=csv&gameName=X", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, w.Body.String(), "$w")
}

func TestErrorResponses(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s.Engine, "admin", "admin-pass")
	anon := &apiClient{t: t, engine: s.Engine}

	tests := []struct {
		name   string
		client *apiClient
		method string
		path   string
		body   interface{}
		status int
	}{
		{"no token", anon, http.MethodGet, "/api/v1/entries", nil, http.StatusUnauthorized},
		{"bad month", admin, http.MethodGet, "/api/v1/ledger/summary?year=2024&month=13", nil, http.StatusBadRequest},
		{"day without month", admin, http.MethodGet, "/api/v1/entries?year=2024&day=3", nil, http.StatusBadRequest},
		{"unknown method filter", admin, http.MethodGet, "/api/v1/entries?method=zelle", nil, http.StatusBadRequest},
		{"bad date binding", admin, http.MethodPost, "/api/v1/entries", gin.H{"type": "freeplay", "game_name": "X", "player_name": "p", "amount_base": 1, "date": "08/05/2024"}, http.StatusBadRequest},
		{"missing method", admin, http.MethodPost, "/api/v1/entries", gin.H{"type": "deposit", "game_name": "X", "player_name": "p", "amount_base": 1}, http.StatusBadRequest},
		{"missing entry", admin, http.MethodGet, "/api/v1/entries/nope", nil, http.StatusNotFound},
		{"bad export format", admin, http.MethodGet, "/api/v1/entries/export?format=pdf", nil, http.StatusBadRequest},
		{"wrong password", anon, http.MethodPost, "/api/v1/auth/login", gin.H{"username": "admin", "password": "nope"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.client.t = t
			w := tt.client.do(tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			var body map[string]interface{}
			decode(t, w, &body)
			require.NotEmpty(t, body["message"])
		})
	}
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s.Engine, "admin", "admin-pass")

	w := admin.do(http.MethodPost, "/api/v1/users", gin.H{"username": "ann", "password": "staff-pass", "role": "STAFF"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	staff := login(t, s.Engine, "ann", "staff-pass")

	w = staff.do(http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = staff.do(http.MethodPost, "/api/v1/games", gin.H{"name": "Y"})
	require.Equal(t, http.StatusForbidden, w.Code)
	w = staff.do(http.MethodGet, "/api/v1/login-history", nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = staff.do(http.MethodPost, "/api/v1/entries", gin.H{
		"type": "freeplay", "game_name": "Y", "player_name": "p", "amount_base": 5, "date": "2024-08-05",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var entry struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	decode(t, w, &entry)
	require.Equal(t, "ann", entry.Username)
	w = staff.do(http.MethodDelete, "/api/v1/entries/"+entry.ID, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = admin.do(http.MethodGet, "/api/v1/login-history?username=ann", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Total int64 `json:"total"`
	}
	decode(t, w, &history)
	require.EqualValues(t, 1, history.Total)

	w = staff.do(http.MethodGet, "/api/v1/audit-logs", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = admin.do(http.MethodGet, "/api/v1/audit-logs?resource=game_entry&resource_id="+entry.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trail struct {
		Total int64 `json:"total"`
	}
	decode(t, w, &trail)
	require.EqualValues(t, 1, trail.Total)

	w = staff.do(http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestReceiptUploadWithoutCloudinary(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s.Engine, "admin", "admin-pass")

	w := admin.do(http.MethodPost, "/api/v1/payments", gin.H{"direction": "in", "method": "chime", "amount": "25", "date": "2024-08-05"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p struct {
		ID string `json:"id"`
	}
	decode(t, w, &p)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "receipt.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/"+p.ID+"/receipt", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin.token)
	rec := httptest.NewRecorder()
	s.Engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMeAndPushToken(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s.Engine, "admin", "admin-pass")

	w := admin.do(http.MethodGet, "/api/v1/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	decode(t, w, &me)
	require.Equal(t, "admin", me.Username)
	require.Equal(t, "ADMIN", me.Role)

	w = admin.do(http.MethodPost, "/api/v1/me/fcm-token", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = admin.do(http.MethodPost, "/api/v1/me/fcm-token", gin.H{"token": "device-1"})
	require.Equal(t, http.StatusOK, w.Code)
}
