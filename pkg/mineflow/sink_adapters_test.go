package mineflow

import (
	"errors"
	"testing"
	"time"
)

func sampleView() View {
	return View{
		Name:  ViewIdleTimePerCrew,
		Cycle: 3,
		Rows: []Row{
			{Key: []string{"Grupo 1"}, Value: 15, Members: 2},
			{Key: []string{"Grupo 2"}, Value: 5, Members: 1},
		},
		StoreLen: 3,
	}
}

func TestNewCallbackSink(t *testing.T) {
	var received []View
	sink := NewCallbackSink("cb", func(v View) error {
		received = append(received, v)
		return nil
	})

	input := sampleView()
	if err := sink.Render(input); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected 1 view, got %d", len(received))
	}
	got := received[0]
	if got.Name != input.Name || got.Cycle != input.Cycle || len(got.Rows) != 2 {
		t.Fatalf("mismatched view payload: %+v vs %+v", got, input)
	}

	got.Rows[0].Key[0] = "mutated"
	if input.Rows[0].Key[0] != "Grupo 1" {
		t.Fatalf("expected rows to be copied")
	}
}

func TestNewCallbackSinkNilHandler(t *testing.T) {
	sink := NewCallbackSink("", nil)
	if sink.Name() != "callback" {
		t.Fatalf("expected default name, got %q", sink.Name())
	}
	if err := sink.Render(sampleView()); err == nil {
		t.Fatalf("expected error when callback is nil")
	}
}

func TestNewChannelSink(t *testing.T) {
	sink, ch, closeFn := NewChannelSink("chan", 1)
	defer closeFn()

	errCh := make(chan error, 1)
	go func() {
		errCh <- sink.Render(sampleView())
	}()

	var v View
	select {
	case v = <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel view")
	}

	if err := <-errCh; err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if v.Name != ViewIdleTimePerCrew || len(v.Rows) != 2 {
		t.Fatalf("unexpected view data: %+v", v)
	}

	closeFn()
	if err := sink.Render(sampleView()); !errors.Is(err, ErrChannelSinkClosed) {
		t.Fatalf("expected ErrChannelSinkClosed, got %v", err)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
}

func TestChannelSinkCloseUnblocksRender(t *testing.T) {
	sink, _, closeFn := NewChannelSink("chan", 0)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sink.Render(sampleView())
	}()

	time.Sleep(10 * time.Millisecond)
	closeFn()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrChannelSinkClosed) {
			t.Fatalf("expected ErrChannelSinkClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Render stayed blocked after close")
	}
}
