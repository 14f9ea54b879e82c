package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/advisor/internal/database"
	"github.com/finsight/advisor/internal/database/repositories"
	"github.com/finsight/advisor/internal/events"
	"github.com/finsight/advisor/internal/modules/scoring"
)

func setupHandlers(t *testing.T) (*Handlers, *database.DB) {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	engine, err := scoring.NewEngine(scoring.DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	repo := repositories.NewRecommendationRepository(db.Conn(), zerolog.Nop())
	em := events.NewManager(zerolog.Nop())

	return NewHandlers(engine, repo, em, zerolog.Nop()), db
}

func testRouter(h *Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/recommendations", h.HandleAnalyze)
	r.Get("/api/recommendations/{symbol}", h.HandleHistory)
	return r
}

func analyzePayload(symbol string, bars int) AnalyzeRequest {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	payload := AnalyzeRequest{
		Symbol:     symbol,
		AssetClass: "STOCK",
	}
	for i := 0; i < bars; i++ {
		price := 100.0 + float64(i)*0.5
		payload.Bars = append(payload.Bars, barPayload{
			Timestamp: start.AddDate(0, 0, i),
			Open:      price - 0.2,
			High:      price + 0.5,
			Low:       price - 0.5,
			Close:     price,
			Volume:    10000 + float64(i)*10,
		})
	}
	return payload
}

func postAnalyze(t *testing.T, router *chi.Mux, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/recommendations", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleAnalyze(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)

	w := postAnalyze(t, router, analyzePayload("AAPL", 90))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Result)
	assert.Nil(t, resp.Error)

	assert.Equal(t, "AAPL", resp.Result.Symbol)
	assert.NotEmpty(t, string(resp.Result.Recommendation))
	assert.GreaterOrEqual(t, resp.Result.ScoreBreakdown.TotalScore, 0.0)
	assert.LessOrEqual(t, resp.Result.ScoreBreakdown.TotalScore, 1.0)
	assert.False(t, resp.Result.GeneratedAt.IsZero())
}

func TestHandleAnalyzeWithHeadlines(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)

	payload := analyzePayload("AAPL", 90)
	payload.Headlines = []headlinePayload{
		{Text: "record quarter", PolarityLabel: "positive", PolarityScore: 0.9},
		{Text: "guidance raised", PolarityLabel: "positive", PolarityScore: 0.8},
		{Text: "supply concerns", PolarityLabel: "negative", PolarityScore: 0.1},
	}

	w := postAnalyze(t, router, payload)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Result)

	assert.Equal(t, 3, resp.Result.ScoreBreakdown.HeadlineCount)
	assert.InDelta(t, 0.6, resp.Result.ScoreBreakdown.SentimentScore, 1e-3)
}

func TestHandleAnalyzeValidation(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/recommendations", bytes.NewReader([]byte("{broken")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing symbol", func(t *testing.T) {
		payload := analyzePayload("", 30)
		w := postAnalyze(t, router, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown asset class", func(t *testing.T) {
		payload := analyzePayload("AAPL", 30)
		payload.AssetClass = "BOND"
		w := postAnalyze(t, router, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp AnalyzeResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.NotNil(t, resp.Error)
		assert.Contains(t, *resp.Error, "BOND")
	})

	t.Run("bars out of order", func(t *testing.T) {
		payload := analyzePayload("AAPL", 30)
		payload.Bars[5].Timestamp = payload.Bars[2].Timestamp
		w := postAnalyze(t, router, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleHistory(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)

	for i := 0; i < 3; i++ {
		w := postAnalyze(t, router, analyzePayload("MSFT", 60))
		require.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest("GET", "/api/recommendations/MSFT", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HistoryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "MSFT", resp.Symbol)
	assert.Len(t, resp.Results, 3)

	for _, res := range resp.Results {
		assert.Equal(t, "MSFT", res.Symbol)
	}
}

func TestHandleHistoryLimit(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)

	for i := 0; i < 5; i++ {
		w := postAnalyze(t, router, analyzePayload("NVDA", 60))
		require.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest("GET", "/api/recommendations/NVDA?limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HistoryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Results, 2)

	t.Run("rejects bad limit", func(t *testing.T) {
		for _, raw := range []string{"abc", "0", "-3"} {
			req := httptest.NewRequest("GET", fmt.Sprintf("/api/recommendations/NVDA?limit=%s", raw), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", raw)
		}
	})
}

func TestHandleHistoryUnknownSymbol(t *testing.T) {
	h, _ := setupHandlers(t)
	router := testRouter(h)

	req := httptest.NewRequest("GET", "/api/recommendations/ZZZZ", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HistoryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Empty(t, resp.Results)
	assert.NotNil(t, resp.Results)
}
