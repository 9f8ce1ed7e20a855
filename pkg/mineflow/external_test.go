package mineflow

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"
)

func TestExternalPublisherRejectWhenFull(t *testing.T) {
	pub, err := NewExternalPublisher(&ExternalPublisherConfig{
		Policy: QueuePolicy{MaxQueueLen: 2, OnQueueFull: "reject"},
	})
	if err != nil {
		t.Fatalf("NewExternalPublisher returned error: %v", err)
	}

	records := scenarioRecords()
	for _, r := range records[:2] {
		if err := pub.Publish(context.Background(), r); err != nil {
			t.Fatalf("Publish returned error: %v", err)
		}
	}
	if err := pub.Publish(context.Background(), records[2]); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if pub.Len() != 2 {
		t.Fatalf("expected 2 queued records, got %d", pub.Len())
	}
}

func TestExternalPublisherBlockWaitsForRoom(t *testing.T) {
	pub, err := NewExternalPublisher(&ExternalPublisherConfig{
		Policy: QueuePolicy{MaxQueueLen: 1, OnQueueFull: "block", IdleSleep: time.Millisecond},
	})
	if err != nil {
		t.Fatalf("NewExternalPublisher returned error: %v", err)
	}
	records := scenarioRecords()
	if err := pub.Publish(context.Background(), records[0]); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- pub.Publish(context.Background(), records[1])
	}()

	batch, err := pub.NextBatch(context.Background(), 10)
	if err != nil || len(batch) != 1 || batch[0].OperatorName != "chofer_1" {
		t.Fatalf("unexpected first batch %+v (%v)", batch, err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("blocked Publish returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Publish stayed blocked after the queue drained")
	}

	batch, err = pub.NextBatch(context.Background(), 10)
	if err != nil || len(batch) != 1 || batch[0].OperatorName != "chofer_2" {
		t.Fatalf("unexpected second batch %+v (%v)", batch, err)
	}
}

func TestExternalPublisherBlockHonoursContext(t *testing.T) {
	pub, err := NewExternalPublisher(&ExternalPublisherConfig{
		Policy: QueuePolicy{MaxQueueLen: 1, IdleSleep: time.Millisecond},
	})
	if err != nil {
		t.Fatalf("NewExternalPublisher returned error: %v", err)
	}
	_ = pub.Publish(context.Background(), scenarioRecords()[0])

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := pub.Publish(ctx, scenarioRecords()[1]); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestExternalPublisherNextBatchWaitsForRecords(t *testing.T) {
	pub, err := NewExternalPublisher(&ExternalPublisherConfig{})
	if err != nil {
		t.Fatalf("NewExternalPublisher returned error: %v", err)
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = pub.Publish(context.Background(), scenarioRecords()[2])
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	batch, err := pub.NextBatch(ctx, 5)
	if err != nil || len(batch) != 1 {
		t.Fatalf("expected one record, got %+v (%v)", batch, err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := pub.NextBatch(ctx, 5); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded on empty queue, got %v", err)
	}
}

func TestExternalPublisherCloseDrainsThenEOF(t *testing.T) {
	pub, err := NewExternalPublisher(&ExternalPublisherConfig{})
	if err != nil {
		t.Fatalf("NewExternalPublisher returned error: %v", err)
	}
	for _, r := range scenarioRecords() {
		_ = pub.Publish(context.Background(), r)
	}
	_ = pub.Close()

	if err := pub.Publish(context.Background(), scenarioRecords()[0]); !errors.Is(err, ErrPublisherClosed) {
		t.Fatalf("expected ErrPublisherClosed, got %v", err)
	}
	batch, err := pub.NextBatch(context.Background(), 2)
	if err != nil || len(batch) != 2 {
		t.Fatalf("expected 2 drained records, got %d (%v)", len(batch), err)
	}
	batch, err = pub.NextBatch(context.Background(), 2)
	if err != nil || len(batch) != 1 {
		t.Fatalf("expected last record, got %d (%v)", len(batch), err)
	}
	if _, err := pub.NextBatch(context.Background(), 2); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after drain, got %v", err)
	}
}

func TestExternalPublisherRejectsInvalidRecord(t *testing.T) {
	pub, err := NewExternalPublisher(&ExternalPublisherConfig{})
	if err != nil {
		t.Fatalf("NewExternalPublisher returned error: %v", err)
	}
	bad := scenarioRecords()[0]
	bad.Tonnage = math.Inf(1)
	if err := pub.Publish(context.Background(), bad); err == nil {
		t.Fatalf("expected invalid record to be rejected")
	}
	if pub.Len() != 0 {
		t.Fatalf("expected nothing queued, got %d", pub.Len())
	}
}

func TestExternalPublisherConfigValidation(t *testing.T) {
	if _, err := NewExternalPublisher(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
	if _, err := NewExternalPublisher(&ExternalPublisherConfig{Policy: QueuePolicy{OnQueueFull: "drop-oldest"}}); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
