package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/innkeep/innkeep/internal/clock"
	"github.com/innkeep/innkeep/internal/config"
	"github.com/innkeep/innkeep/internal/logger"
	"github.com/innkeep/innkeep/internal/migration"
	"github.com/innkeep/innkeep/internal/server"
	"github.com/innkeep/innkeep/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type testEnv struct {
	app     *fx.App
	db      *gorm.DB
	httpSrv *httptest.Server
	baseURL string
}

var env *testEnv

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	setDefaultEnv()

	var err error
	env, err = startEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start test environment:", err)
		os.Exit(1)
	}

	code := m.Run()
	env.shutdown()
	os.Exit(code)
}

func setDefaultEnv() {
	setEnvIfEmpty("ENVIRONMENT", "test")
	setEnvIfEmpty("LOG_LEVEL", "error")
	setEnvIfEmpty("DATABASE_TYPE", "sqlite")
	setEnvIfEmpty("DATABASE_NAME", "file:innkeep_e2e?mode=memory&cache=shared")
	setEnvIfEmpty("HTTP_ADDR", "127.0.0.1:0")
	setEnvIfEmpty("SCHEDULER_ENABLED", "false")
	setEnvIfEmpty("AUDIT_TZ_OFFSET_HOURS", "0")
}

func setEnvIfEmpty(key, value string) {
	if strings.TrimSpace(os.Getenv(key)) != "" {
		return
	}
	_ = os.Setenv(key, value)
}

func startEnv() (*testEnv, error) {
	var (
		engine *gin.Engine
		dbConn *gorm.DB
	)

	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		fx.Populate(&engine, &dbConn),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return nil, err
	}

	httpSrv := httptest.NewServer(engine)
	return &testEnv{app: app, db: dbConn, httpSrv: httpSrv, baseURL: httpSrv.URL}, nil
}

func (e *testEnv) shutdown() {
	if e == nil {
		return
	}
	if e.httpSrv != nil {
		e.httpSrv.Close()
	}
	if e.app != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.app.Stop(stopCtx)
	}
}

func resetDatabase(t *testing.T, dbConn *gorm.DB) {
	t.Helper()
	for _, table := range []string{
		"audit_issues", "audit_run_logs", "audit_snapshots",
		"payments", "postings", "stays", "reservations", "rooms", "guests",
	} {
		require.NoError(t, dbConn.Exec("DELETE FROM "+table).Error)
	}
}

func doJSON(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, env.baseURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func data(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	d, ok := payload["data"].(map[string]any)
	require.True(t, ok, "payload missing data object: %v", payload)
	return d
}

func TestE2E_HealthCheck(t *testing.T) {
	resp, err := http.Get(env.baseURL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestE2E_FrontDeskAndNightAuditFlow(t *testing.T) {
	resetDatabase(t, env.db)

	resp, body := doJSON(t, http.MethodPost, "/v1/rooms", map[string]any{
		"room_number": "101", "room_type": "standard", "floor": "1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "create room: %v", body)

	resp, body = doJSON(t, http.MethodPost, "/v1/guests", map[string]any{
		"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "create guest: %v", body)
	guestID := data(t, body)["id"].(string)

	resp, body = doJSON(t, http.MethodPost, "/v1/reservations", map[string]any{
		"guest_id":       guestID,
		"check_in_date":  "2020-01-01",
		"check_out_date": "2020-01-03",
		"room_numbers":   []string{"101"},
		"channel":        "direct",
		"adults":         1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "create reservation: %v", body)
	resID := data(t, body)["id"].(string)

	resp, body = doJSON(t, http.MethodPost, "/v1/reservations/"+resID+"/check-in", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "check-in: %v", body)
	assert.Equal(t, "checked-in", data(t, body)["status"])

	resp, body = doJSON(t, http.MethodPost, "/v1/reservations/"+resID+"/postings", map[string]any{
		"description": "room night", "amount": 150.0, "tax": 15.0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "add posting: %v", body)

	resp, body = doJSON(t, http.MethodPost, "/v1/reservations/"+resID+"/payments", map[string]any{
		"amount": 100.0, "method": "card",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "add payment: %v", body)

	// Preview: the 2020 dates are far in the past, so the audit flags the
	// stale check-in, the overdue checkout on the open stay, and the 65
	// balance on the folio.
	resp, body = doJSON(t, http.MethodPost, "/v1/night-audit/run", map[string]any{"run_by": "e2e"})
	require.Equal(t, http.StatusOK, resp.StatusCode, "audit preview: %v", body)
	preview := data(t, body)
	issues := preview["issues"].([]any)
	require.Len(t, issues, 3)

	// Nothing persisted by a preview.
	var logCount int64
	require.NoError(t, env.db.Table("audit_run_logs").Count(&logCount).Error)
	assert.Zero(t, logCount)

	// Finalize writes the run log and issue documents.
	resp, body = doJSON(t, http.MethodPost, "/v1/night-audit/run", map[string]any{
		"run_by": "e2e", "finalize": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "audit finalize: %v", body)
	summary := data(t, body)["summary"].(map[string]any)
	businessDay := summary["business_day"].(string)

	resp, body = doJSON(t, http.MethodGet, "/v1/night-audit/logs/"+businessDay, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "get run log: %v", body)
	assert.Equal(t, "e2e", data(t, body)["run_by"])

	// Acknowledge the mismatch; the next run stops reporting it.
	issueKey := "payments_mismatch:" + resID
	resp, body = doJSON(t, http.MethodPost, "/v1/night-audit/issues/"+issueKey+"/ack", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "ack issue: %v", body)
	assert.Equal(t, true, data(t, body)["noticed"])

	resp, body = doJSON(t, http.MethodPost, "/v1/night-audit/run", map[string]any{"run_by": "e2e"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rerun := data(t, body)
	for _, raw := range rerun["issues"].([]any) {
		issue := raw.(map[string]any)
		assert.NotEqual(t, issueKey, issue["issue_key"])
	}
}

func TestE2E_CheckOutDirtiesRoom(t *testing.T) {
	resetDatabase(t, env.db)

	resp, body := doJSON(t, http.MethodPost, "/v1/rooms", map[string]any{
		"room_number": "201", "room_type": "suite",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "create room: %v", body)

	resp, body = doJSON(t, http.MethodPost, "/v1/reservations", map[string]any{
		"check_in_date":  "2020-01-01",
		"check_out_date": "2020-01-02",
		"room_numbers":   []string{"201"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resID := data(t, body)["id"].(string)

	resp, _ = doJSON(t, http.MethodPost, "/v1/reservations/"+resID+"/check-in", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, "/v1/reservations/"+resID+"/check-out", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "checked-out", data(t, body)["status"])

	resp, body = doJSON(t, http.MethodGet, "/v1/rooms/201", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Vacant Dirty", data(t, body)["status"])
}

func TestE2E_UnknownReservationReturns404(t *testing.T) {
	resetDatabase(t, env.db)

	resp, body := doJSON(t, http.MethodGet, "/v1/reservations/123456789", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "body: %v", body)
}
