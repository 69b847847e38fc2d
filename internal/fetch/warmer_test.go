package fetch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingObtainer struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *countingObtainer) Obtain(_ context.Context, slot Slot) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[slot.Name]++
	if slot.Name == "broken" {
		return nil, ErrNoDataAvailable
	}
	return &Result{Source: SourceCache}, nil
}

func (c *countingObtainer) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func TestStartWarmer_WarmsEverySlot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	o := &countingObtainer{}
	slots := []Slot{{Name: "schedule"}, {Name: "broken"}, {Name: "drivers"}}

	done := StartWarmer(ctx, o, slots, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return o.count("schedule") >= 2 && o.count("drivers") >= 2
	}, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, o.count("broken"), 2, "a failing slot must not stop the others")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("warmer did not stop after cancellation")
	}
}

func TestStartWarmer_StopsImmediatelyWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := &countingObtainer{}

	done := StartWarmer(ctx, o, []Slot{{Name: "schedule"}}, time.Hour)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("warmer did not stop")
	}
	assert.Zero(t, o.count("schedule"))
}
