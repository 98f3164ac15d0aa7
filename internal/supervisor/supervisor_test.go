package supervisor

import (
	"context"
	"testing"
	"time"

	"github.com/alxayo/gelflb/internal/balancer"
	"github.com/alxayo/gelflb/internal/reassembly"
)

func TestRunEvictionNoOpWithNilTable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunEviction(ctx, nil)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected RunEviction to return promptly for nil table")
	}
}

func TestRunEvictionStopsOnCancel(t *testing.T) {
	table := reassembly.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunEviction(ctx, table)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected RunEviction to stop after cancellation")
	}
}

func TestRunReportingStopsOnCancel(t *testing.T) {
	counters := &balancer.Counters{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunReporting(ctx, counters)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected RunReporting to stop after cancellation")
	}
}
