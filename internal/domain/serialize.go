package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// SerializeEventSummary marshals a summary into an output event keyed by the
// event id (prefixed by the run id when present, so keys stay unique across
// replayed runs).
func SerializeEventSummary(summary EventSummary) (OutputEvent, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize event summary: %w", err)
	}

	key := strconv.Itoa(summary.EventID)
	if summary.RunID != "" {
		key = summary.RunID + "-" + key
	}

	return OutputEvent{
		Key:   []byte(key),
		Value: data,
		Headers: map[string]string{
			"event_id":     strconv.Itoa(summary.EventID),
			"processed_at": summary.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
