package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/finsight/advisor/internal/database/repositories"
	"github.com/finsight/advisor/internal/domain"
	"github.com/finsight/advisor/internal/events"
	"github.com/finsight/advisor/internal/modules/scoring"
)

// Handlers provides HTTP handlers for the scoring module
type Handlers struct {
	engine *scoring.Engine
	repo   *repositories.RecommendationRepository
	events *events.Manager
	log    zerolog.Logger
}

// NewHandlers creates a new scoring handlers instance
func NewHandlers(engine *scoring.Engine, repo *repositories.RecommendationRepository, em *events.Manager, log zerolog.Logger) *Handlers {
	return &Handlers{
		engine: engine,
		repo:   repo,
		events: em,
		log:    log.With().Str("module", "scoring_handlers").Logger(),
	}
}

// AnalyzeRequest represents a request to score a symbol
type AnalyzeRequest struct {
	Symbol             string                    `json:"symbol"`
	AssetClass         string                    `json:"asset_class"`
	HasAnalystCoverage bool                      `json:"has_analyst_coverage,omitempty"`
	VolatilityIndex    *float64                  `json:"volatility_index,omitempty"`
	Bars               []barPayload              `json:"bars"`
	Fundamentals       domain.FundamentalMetrics `json:"fundamentals,omitempty"`
	Headlines          []headlinePayload         `json:"headlines,omitempty"`
}

type barPayload struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

type headlinePayload struct {
	Text          string  `json:"text"`
	PolarityLabel string  `json:"polarity_label"`
	PolarityScore float64 `json:"polarity_score"`
}

// AnalyzeResponse represents the response from scoring
type AnalyzeResponse struct {
	Result *domain.RecommendationResult `json:"result,omitempty"`
	Error  *string                      `json:"error,omitempty"`
}

// HistoryResponse represents stored results for one symbol
type HistoryResponse struct {
	Symbol  string                        `json:"symbol"`
	Results []domain.RecommendationResult `json:"results"`
	Error   *string                       `json:"error,omitempty"`
}

// HandleAnalyze handles POST /api/recommendations
// Runs the full scoring pipeline for one symbol
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode analyze request")
		h.rejectAnalysis(w, "", "Invalid request body")
		return
	}

	input, reason := buildAnalysisInput(req)
	if reason != "" {
		h.rejectAnalysis(w, req.Symbol, reason)
		return
	}

	result := h.engine.Score(input)

	if err := h.repo.Save(result); err != nil {
		// Scoring succeeded; a storage failure should not hide the result
		h.log.Error().Err(err).Str("symbol", result.Symbol).Msg("Failed to persist recommendation")
	} else {
		h.events.Emit(events.RecommendationCreated, "scoring", map[string]interface{}{
			"symbol":         result.Symbol,
			"recommendation": string(result.Recommendation),
			"total_score":    result.ScoreBreakdown.TotalScore,
		})
	}

	h.writeJSON(w, http.StatusOK, AnalyzeResponse{Result: &result})
}

// HandleHistory handles GET /api/recommendations/{symbol}
// Returns stored results for a symbol, newest first
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		h.writeError(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, "Limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	results, err := h.repo.ListBySymbol(symbol, limit)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to load recommendation history")
		h.writeError(w, "Failed to load recommendation history", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, HistoryResponse{Symbol: symbol, Results: results})
}

// buildAnalysisInput validates a request and converts it into engine
// input. A non-empty reason means the request was rejected.
func buildAnalysisInput(req AnalyzeRequest) (scoring.AnalysisInput, string) {
	if req.Symbol == "" {
		return scoring.AnalysisInput{}, "Symbol is required"
	}

	assetClass := domain.AssetClass(req.AssetClass)
	if !assetClass.Valid() {
		return scoring.AnalysisInput{}, fmt.Sprintf("Unknown asset class %q", req.AssetClass)
	}

	bars := make([]domain.PriceBar, len(req.Bars))
	for i, b := range req.Bars {
		if i > 0 && !b.Timestamp.After(req.Bars[i-1].Timestamp) {
			return scoring.AnalysisInput{}, "Bars must be in ascending timestamp order"
		}
		bars[i] = domain.PriceBar{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}

	headlines := make([]domain.HeadlineScore, len(req.Headlines))
	for i, hl := range req.Headlines {
		headlines[i] = domain.HeadlineScore{
			Text:          hl.Text,
			PolarityLabel: hl.PolarityLabel,
			PolarityScore: hl.PolarityScore,
		}
	}

	return scoring.AnalysisInput{
		Symbol:       req.Symbol,
		Bars:         bars,
		Fundamentals: req.Fundamentals,
		Headlines:    headlines,
		Context: domain.MarketContext{
			AssetClass:         assetClass,
			HasAnalystCoverage: req.HasAnalystCoverage,
			VolatilityIndex:    req.VolatilityIndex,
		},
	}, ""
}

// rejectAnalysis reports a rejected request and writes the error response
func (h *Handlers) rejectAnalysis(w http.ResponseWriter, symbol, reason string) {
	h.events.Emit(events.AnalysisFailed, "scoring", map[string]interface{}{
		"symbol": symbol,
		"reason": reason,
	})
	h.writeError(w, reason, http.StatusBadRequest)
}

// writeJSON writes a JSON response
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	errMsg := message
	h.writeJSON(w, status, AnalyzeResponse{Error: &errMsg})
}
