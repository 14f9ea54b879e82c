package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/advisor/internal/domain"
)

// RecommendationRepository stores and retrieves scoring results.
// Persistence lives here, outside the scoring core; the engine itself
// never touches storage.
type RecommendationRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *sql.DB, log zerolog.Logger) *RecommendationRepository {
	return &RecommendationRepository{
		db:  db,
		log: log.With().Str("repo", "recommendations").Logger(),
	}
}

// Save persists one scoring result
func (r *RecommendationRepository) Save(res domain.RecommendationResult) error {
	warnings, err := json.Marshal(res.Warnings)
	if err != nil {
		return fmt.Errorf("failed to encode warnings: %w", err)
	}

	b := res.ScoreBreakdown
	_, err = r.db.Exec(`
		INSERT INTO recommendations (
			symbol, recommendation, confidence_level,
			total_score, technical_score, fundamental_score, sentiment_score,
			technical_weight, fundamental_weight, sentiment_weight,
			headline_count, asset_class, warnings, explanation, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Symbol, string(res.Recommendation), string(res.ConfidenceLevel),
		b.TotalScore, b.TechnicalScore, b.FundamentalScore, b.SentimentScore,
		b.TechnicalWeight, b.FundamentalWeight, b.SentimentWeight,
		b.HeadlineCount, string(res.MarketContext.AssetClass),
		string(warnings), res.Explanation, res.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save recommendation: %w", err)
	}

	return nil
}

// ListBySymbol returns the most recent stored results for a symbol,
// newest first
func (r *RecommendationRepository) ListBySymbol(symbol string, limit int) ([]domain.RecommendationResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT symbol, recommendation, confidence_level,
			total_score, technical_score, fundamental_score, sentiment_score,
			technical_weight, fundamental_weight, sentiment_weight,
			headline_count, asset_class, warnings, explanation, generated_at
		FROM recommendations
		WHERE symbol = ?
		ORDER BY generated_at DESC
		LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	results := []domain.RecommendationResult{}
	for rows.Next() {
		var res domain.RecommendationResult
		var rec, conf, assetClass, warnings string

		err := rows.Scan(
			&res.Symbol, &rec, &conf,
			&res.ScoreBreakdown.TotalScore,
			&res.ScoreBreakdown.TechnicalScore,
			&res.ScoreBreakdown.FundamentalScore,
			&res.ScoreBreakdown.SentimentScore,
			&res.ScoreBreakdown.TechnicalWeight,
			&res.ScoreBreakdown.FundamentalWeight,
			&res.ScoreBreakdown.SentimentWeight,
			&res.ScoreBreakdown.HeadlineCount,
			&assetClass, &warnings, &res.Explanation, &res.GeneratedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}

		res.Recommendation = domain.Recommendation(rec)
		res.ConfidenceLevel = domain.ConfidenceLevel(conf)
		res.MarketContext.AssetClass = domain.AssetClass(assetClass)

		if err := json.Unmarshal([]byte(warnings), &res.Warnings); err != nil {
			r.log.Warn().Err(err).Str("symbol", res.Symbol).Msg("Malformed warnings column")
			res.Warnings = []string{}
		}

		results = append(results, res)
	}

	return results, rows.Err()
}

// PruneOlderThan deletes stored results older than the retention
// window and returns the number of rows removed
func (r *RecommendationRepository) PruneOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)

	result, err := r.db.Exec(`DELETE FROM recommendations WHERE generated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune recommendations: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		r.log.Info().Int64("removed", removed).Msg("Pruned stale recommendations")
	}

	return removed, nil
}
