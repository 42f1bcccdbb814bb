package kafka

import (
	"testing"
	"time"

	"github.com/McGillMedPhys/clustered-dna-damage/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("run7-42"),
		Value:     []byte(`{"event_id":42,"hits":[]}`),
		Topic:     "raw-energy-deposits",
		Partition: 2,
		Offset:    137,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("transport-engine")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("run7-42"), raw.Key)
	assert.JSONEq(t, `{"event_id":42,"hits":[]}`, string(raw.Value))
	assert.Equal(t, "raw-energy-deposits", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(137), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "transport-engine", raw.Headers["source"])
	assert.Nil(t, raw.Commit, "commit is bound by the owning reader")
}

func TestMapOutputToMessage(t *testing.T) {
	out := domain.OutputEvent{
		Key:   []byte("run7-42"),
		Value: []byte(`{"event_id":42,"total_dsb":1}`),
		Headers: map[string]string{
			"processed_at": "2026-08-30T12:00:00Z",
			"event_id":     "42",
		},
	}

	msg := mapOutputToMessage(out)

	assert.Equal(t, []byte("run7-42"), msg.Key)
	assert.Equal(t, out.Value, msg.Value)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("42"), msg.Headers[0].Value)
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-08-30T12:00:00Z"), msg.Headers[1].Value)
}
