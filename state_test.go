package librertos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStateString(t *testing.T) {
	tests := []struct {
		state TaskState
		want  string
	}{
		{TaskNotInitialized, "NotInitialized"},
		{TaskReady, "Ready"},
		{TaskBlocked, "Blocked"},
		{TaskSuspended, "Suspended"},
		{TaskState(99), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestKernelStateString(t *testing.T) {
	tests := []struct {
		state KernelState
		want  string
	}{
		{KernelNotStarted, "NotStarted"},
		{KernelRunning, "Running"},
		{KernelStopped, "Stopped"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestFastStateTransition(t *testing.T) {
	s := newFastState()
	assert.Equal(t, KernelNotStarted, s.Load())

	assert.True(t, s.TryTransition(KernelNotStarted, KernelRunning))
	assert.Equal(t, KernelRunning, s.Load())

	// wrong "from" fails
	assert.False(t, s.TryTransition(KernelNotStarted, KernelStopped))
	assert.Equal(t, KernelRunning, s.Load())

	assert.True(t, s.TryTransition(KernelRunning, KernelStopped))
	assert.Equal(t, KernelStopped, s.Load())
}

func TestFastStateStore(t *testing.T) {
	s := newFastState()
	s.Store(KernelStopped)
	assert.Equal(t, KernelStopped, s.Load())
}
