package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dexspread/internal/model"
	"dexspread/internal/report"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPing(t *testing.T) {
	router := NewRouter(report.NewHub(testLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pong", body["message"])
	assert.EqualValues(t, 0, body["clients"])
}

func TestWebSocketFeed(t *testing.T) {
	hub := report.NewHub(testLogger())
	srv := httptest.NewServer(NewRouter(hub))
	defer srv.Close()
	defer hub.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	tick := model.TickReport{
		TickID: "tick-1",
		Pair:   "WETH/USDC",
		Rates:  []model.VenueRate{{Venue: "quickswap", Rate: decimal.RequireFromString("1800")}},
		Opportunity: model.OpportunityResult{
			BuyVenue:   "quickswap",
			SellVenue:  "sushiswap",
			NetProfit:  decimal.RequireFromString("3.5"),
			Actionable: true,
		},
	}
	require.NoError(t, hub.ReportTick(context.Background(), tick))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type string           `json:"type"`
		Data model.TickReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, report.EventTick, event.Type)
	assert.Equal(t, "tick-1", event.Data.TickID)
	assert.True(t, event.Data.Opportunity.Actionable)
	assert.True(t, decimal.RequireFromString("3.5").Equal(event.Data.Opportunity.NetProfit))
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := New(testLogger(), "127.0.0.1:0", report.NewHub(testLogger()))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
