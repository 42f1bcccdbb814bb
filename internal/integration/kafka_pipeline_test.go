//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/McGillMedPhys/clustered-dna-damage/internal/adapter/kafka"
	"github.com/McGillMedPhys/clustered-dna-damage/internal/config"
	"github.com/McGillMedPhys/clustered-dna-damage/internal/domain"
	"github.com/McGillMedPhys/clustered-dna-damage/internal/observability"
	"github.com/McGillMedPhys/clustered-dna-damage/internal/pipeline"
)

const (
	testSourceTopic = "test-source"
	testSinkTopic   = "test-sink"
)

// classifiedMessage holds a deserialized summary read from the sink topic.
type classifiedMessage struct {
	Summary domain.EventSummary
	Key     string
	Headers map[string]string
}

// readClassified reads a single message from the sink consumer and deserializes it.
func readClassified(ctx context.Context, t *testing.T, consumer *kafkago.Reader) classifiedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var summary domain.EventSummary
	require.NoError(t, json.Unmarshal(msg.Value, &summary), "unmarshal sink message")

	return classifiedMessage{
		Summary: summary,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

// dsbEvent returns a raw event whose hits score exactly one DSB: two backbone
// lesions on opposite strands, 3 bp apart.
func dsbEvent(eventID int) domain.RawEventRecord {
	return domain.RawEventRecord{
		EventID: eventID,
		RunID:   "itest",
		Hits: []domain.EnergyDeposit{
			{Fiber: 0, Strand: 0, Residue: 0, BP: 100, EnergyEV: 25.0},
			{Fiber: 0, Strand: 1, Residue: 1, BP: 103, EnergyEV: 25.0},
		},
	}
}

// ssbEvent returns a raw event whose hits score one isolated SSB.
func ssbEvent(eventID int) domain.RawEventRecord {
	return domain.RawEventRecord{
		EventID: eventID,
		RunID:   "itest",
		Hits: []domain.EnergyDeposit{
			{Fiber: 0, Strand: 0, Residue: 0, BP: 500, EnergyEV: 20.0},
		},
	}
}

// cleanEvent returns a raw event whose hits all stay below threshold.
func cleanEvent(eventID int) domain.RawEventRecord {
	return domain.RawEventRecord{
		EventID: eventID,
		RunID:   "itest",
		Hits: []domain.EnergyDeposit{
			{Fiber: 0, Strand: 0, Residue: 2, BP: 42, EnergyEV: 3.0},
		},
	}
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (extractor)
// and kafka.Writer (loader) correctly round-trip a classified event.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-reader-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	payload, err := json.Marshal(dsbEvent(1))
	require.NoError(t, err)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte("itest-1"),
		Value: payload,
	}))

	// Extract via kafka.Reader.
	// Retry because the consumer group may need time to rebalance before
	// partitions are assigned and messages become available.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawEvent
	for {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("itest-1"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")

	require.NoError(t, raw.Commit(ctx))

	// Classify the raw event.
	transformer := pipeline.NewTransformer(domain.DefaultParams(), observability.NewMetricsForTesting(), discardLogger())
	out, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)

	// Load via kafka.Writer.
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.LoadBatch(ctx, []domain.OutputEvent{out}))

	// Read from the sink topic and verify headers + summary.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	cm := readClassified(ctx, t, consumer)
	assert.Equal(t, "itest-1", cm.Key)
	assert.Equal(t, "1", cm.Headers["event_id"])
	_, err = time.Parse(time.RFC3339, cm.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	assert.Equal(t, 1, cm.Summary.EventID)
	assert.Equal(t, "itest", cm.Summary.RunID)
	assert.Zero(t, cm.Summary.TotalSSB, "both lesions were paired into the DSB")
	// At the default 40 bp cluster distance an isolated DSB clusters with
	// itself, so it is reported as a complex DSB rather than a simple one.
	assert.Zero(t, cm.Summary.TotalDSB)
	assert.Equal(t, 1, cm.Summary.TotalComplexDSB)
	require.Len(t, cm.Summary.ComplexDSBs, 1)
	assert.Equal(t, 1, cm.Summary.ComplexDSBs[0].NumDSB)
}

// TestPipelineEndToEnd wires the full pipeline (Reader, Transformer, Writer)
// with real Kafka and verifies classification of a mixed batch of events.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-pipeline-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	// Publish a mixed batch: DSB events, SSB events, and clean events that
	// must not produce sink rows.
	records := []domain.RawEventRecord{
		dsbEvent(1),
		ssbEvent(2),
		cleanEvent(3),
		dsbEvent(4),
		ssbEvent(5),
		cleanEvent(6),
	}
	damagedCount := 4

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		require.NoError(t, err)
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(fmt.Sprintf("itest-%d", rec.EventID)),
			Value: payload,
		})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	// Wire up the pipeline.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	transformer := pipeline.NewTransformer(domain.DefaultParams(), observability.NewMetricsForTesting(), discardLogger())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[int]classifiedMessage, damagedCount)
	for len(received) < damagedCount {
		cm := readClassified(ctx, t, consumer)
		received[cm.Summary.EventID] = cm
	}

	// Verify no extra message arrives (the clean events were skipped).
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "clean events must not reach the sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)

	for _, id := range []int{1, 4} {
		cm, ok := received[id]
		require.True(t, ok, "missing DSB event %d", id)
		assert.Equal(t, 1, cm.Summary.TotalComplexDSB, "event %d", id)
		assert.Zero(t, cm.Summary.TotalDSB, "event %d: DSB absorbed into its own cluster", id)
	}
	for _, id := range []int{2, 5} {
		cm, ok := received[id]
		require.True(t, ok, "missing SSB event %d", id)
		assert.Equal(t, 1, cm.Summary.TotalSSB, "event %d", id)
		assert.Zero(t, cm.Summary.TotalDSB, "event %d", id)
	}
	for _, cm := range received {
		assert.NotEmpty(t, cm.Headers["event_id"], "missing event_id header")
		_, err := time.Parse(time.RFC3339, cm.Headers["processed_at"])
		assert.NoError(t, err, "invalid processed_at format")
	}
}

// TestPipelineTransformError verifies that an invalid message (poison pill) is
// skipped and the pipeline continues processing valid messages.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-poison-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	validPayload, err := json.Marshal(dsbEvent(9))
	require.NoError(t, err)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("good"), Value: validPayload},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	transformer := pipeline.NewTransformer(domain.DefaultParams(), observability.NewMetricsForTesting(), discardLogger())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Only the valid message should appear on the sink topic.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	cm := readClassified(ctx, t, consumer)
	assert.Equal(t, 9, cm.Summary.EventID)
	assert.Equal(t, 1, cm.Summary.TotalComplexDSB)

	// Verify no second message arrives (the poison pill was skipped).
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
