package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpamGuard(t *testing.T) {
	clock := newFakeClock()
	g := NewSpamGuard(time.Second)
	g.now = clock.Now

	_, ok := g.Check(1)
	assert.True(t, ok, "first action passes")

	clock.Advance(400 * time.Millisecond)
	elapsed, ok := g.Check(1)
	assert.False(t, ok)
	assert.Equal(t, 400*time.Millisecond, elapsed)

	// the rejected action did not move the stamp
	clock.Advance(600 * time.Millisecond)
	_, ok = g.Check(1)
	assert.True(t, ok)

	_, ok = g.Check(2)
	assert.True(t, ok, "users are tracked separately")
}

func TestSpamGuardPenalties(t *testing.T) {
	g := NewSpamGuard(time.Second)
	assert.Zero(t, g.Penalties(1))

	g.Penalize(1)
	g.Penalize(1)
	assert.Equal(t, uint64(2), g.Penalties(1))
	assert.Zero(t, g.Penalties(2))
}
