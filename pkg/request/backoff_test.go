package request

import (
	"testing"
	"time"
)

func TestProviderBackoff_FailureGrowsDelay(t *testing.T) {
	b := NewProviderBackoff(100*time.Millisecond, time.Second)

	b.RecordFailure("gemini")
	failures, next := b.GetState("gemini")
	if failures != 1 {
		t.Errorf("expected 1 failure, got %d", failures)
	}
	first := time.Until(next)

	b.RecordFailure("gemini")
	_, next = b.GetState("gemini")
	second := time.Until(next)

	if second <= first {
		t.Errorf("expected delay to grow: first=%v second=%v", first, second)
	}
}

func TestProviderBackoff_CapsAtMax(t *testing.T) {
	b := NewProviderBackoff(100*time.Millisecond, 300*time.Millisecond)

	for i := 0; i < 10; i++ {
		b.RecordFailure("veo")
	}
	_, next := b.GetState("veo")
	// Max delay plus 10% jitter
	if d := time.Until(next); d > 350*time.Millisecond {
		t.Errorf("delay %v exceeds cap", d)
	}
}

func TestProviderBackoff_Recovery(t *testing.T) {
	b := NewProviderBackoff(time.Millisecond, time.Second)

	b.RecordFailure("gemini")
	b.RecordSuccess("gemini")

	failures, next := b.GetState("gemini")
	if failures != 0 {
		t.Errorf("expected 0 failures after recovery, got %d", failures)
	}
	if !next.IsZero() {
		t.Errorf("expected cleared backoff, got %v", next)
	}

	// Unknown providers never wait
	b.Wait("unknown")
}
