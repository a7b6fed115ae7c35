package handler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedErrors struct {
	mu     sync.Mutex
	errors []string
}

func (r *recordedErrors) LogError(err error, where string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, where+": "+err.Error())
}

func TestAsyncPanicIsReported(t *testing.T) {
	reports := &recordedErrors{}
	h := New(Deps{})
	h.panics = reports

	ran := false
	h.async(func() { panic("payout exploded") })
	h.async(func() { ran = true })
	h.Wait()

	assert.True(t, ran)
	require.Len(t, reports.errors, 1)
	assert.Equal(t, "background flow: panic: payout exploded", reports.errors[0])
}

func TestAsyncPanicWithoutReporter(t *testing.T) {
	h := New(Deps{})
	assert.NotPanics(t, func() {
		h.async(func() { panic("boom") })
		h.Wait()
	})
}
