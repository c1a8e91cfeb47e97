package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestPacer(t *testing.T) {
	p := NewPacer(80 * time.Millisecond)

	// Test the free first request
	if !p.Allow() {
		t.Error("Expected the first request to pass immediately")
	}

	// Test pacing
	if p.Allow() {
		t.Error("Expected the second request to be paced")
	}

	// Test refill after waiting
	time.Sleep(100 * time.Millisecond)
	if !p.Allow() {
		t.Error("Expected a request to pass after the interval")
	}

	// Test reset
	if p.Allow() {
		t.Error("Expected the bucket to be empty again")
	}
	p.Reset()
	if !p.Allow() {
		t.Error("Expected a request to pass after reset")
	}
}

func TestPacerWaitHonorsContext(t *testing.T) {
	p := NewPacer(time.Hour)

	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Expected the first wait to pass, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := p.Wait(ctx); err == nil {
		t.Error("Expected the wait to fail when the context cannot outlast the interval")
	}
}

func TestPacerDisabled(t *testing.T) {
	p := NewPacer(0)

	for i := 0; i < 5; i++ {
		if !p.Allow() {
			t.Errorf("Expected request %d to pass with pacing disabled", i+1)
		}
	}
}
