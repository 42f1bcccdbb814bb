package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoDamage is returned when an event classifies to all-zero tallies.
// Such events produce no output row; the pipeline commits and moves on.
var ErrNoDamage = errors.New("event produced no damage")

// ParseRawEvent deserializes a RawEvent's value into a RawEventRecord.
func ParseRawEvent(raw RawEvent) (RawEventRecord, error) {
	var rec RawEventRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return RawEventRecord{}, fmt.Errorf("parse raw event: %w", err)
	}
	if rec.EventID < 0 {
		return RawEventRecord{}, fmt.Errorf("parse raw event: negative event id %d", rec.EventID)
	}
	return rec, nil
}
