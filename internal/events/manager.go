package events

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// EventType represents different event types
type EventType string

const (
	RecommendationCreated EventType = "RECOMMENDATION_CREATED"
	AnalysisFailed        EventType = "ANALYSIS_FAILED"
	HistoryPruned         EventType = "HISTORY_PRUNED"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}

// Manager handles event emission and logging
type Manager struct {
	log zerolog.Logger
}

// NewManager creates a new event manager
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		log: log.With().Str("service", "events").Logger(),
	}
}

// Emit emits an event
func (m *Manager) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Module:    module,
	}

	payload, err := json.Marshal(event.Data)
	if err != nil {
		payload = []byte("{}")
	}

	m.log.Info().
		Str("event", string(event.Type)).
		Str("module", event.Module).
		RawJSON("data", payload).
		Msg("Event emitted")
}
