package librertos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFifoInitRejectsEmptyBuffer(t *testing.T) {
	k := newTestKernel(t)

	var captured error
	SetFatalHook(func(err error) { captured = err })
	defer SetFatalHook(defaultFatal)

	var f Fifo
	k.FifoInit(&f, nil)
	assert.Error(t, captured)
}

func TestFifoWriteReadRoundTrip(t *testing.T) {
	k := newTestKernel(t)

	var f Fifo
	k.FifoInit(&f, make([]byte, 8))

	n := k.FifoWrite(&f, []byte{1, 2, 3})
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, f.Used())

	out := make([]byte, 3)
	n = k.FifoRead(&f, out)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{1, 2, 3}, out)
	assert.True(t, f.Empty())
}

func TestFifoReadReturnsShortCountWhenUnderfilled(t *testing.T) {
	k := newTestKernel(t)

	var f Fifo
	k.FifoInit(&f, make([]byte, 8))
	k.FifoWrite(&f, []byte{1, 2})

	out := make([]byte, 5)
	n := k.FifoRead(&f, out)
	assert.Equal(t, 2, n)
}

func TestFifoWriteReturnsShortCountWhenOverfull(t *testing.T) {
	k := newTestKernel(t)

	var f Fifo
	k.FifoInit(&f, make([]byte, 3))

	n := k.FifoWrite(&f, []byte{1, 2, 3, 4})
	assert.Equal(t, 3, n)
	assert.True(t, f.Full())
}

func TestFifoInvariantHoldsAcrossOperations(t *testing.T) {
	k := newTestKernel(t)

	var f Fifo
	k.FifoInit(&f, make([]byte, 6))

	k.FifoWrite(&f, []byte{1, 2, 3})
	out := make([]byte, 2)
	k.FifoRead(&f, out)
	k.FifoWrite(&f, []byte{4, 5})

	assert.Equal(t, f.Length(), f.Free()+f.Used()+f.wLock+f.rLock)
}

// TestFifoCoalescedWait exercises the exact coalesced-wait scenario: a
// consumer requests 5 bytes from an empty FIFO, a producer writes 3
// (insufficient, consumer stays blocked), then writes 2 more — the
// consumer must wake exactly once and receive all 5 bytes, never a
// partial read.
func TestFifoCoalescedWait(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))

	var f Fifo
	k.FifoInit(&f, make([]byte, 8))

	var consumer Task
	k.TaskCreate(&consumer, 0, func(TaskParameter) {}, nil)

	out := make([]byte, 5)
	k.currentTask = &consumer
	n := k.FifoReadPend(&f, out, MaxDelay)
	k.currentTask = nil

	require.Equal(t, 0, n)
	assert.Equal(t, TaskSuspended, consumer.State())
	assert.Equal(t, 5, consumer.fifoWant)

	require.Equal(t, 3, k.FifoWrite(&f, []byte{1, 2, 3}))
	assert.Equal(t, TaskSuspended, consumer.State(), "must stay blocked: only 3 of 5 requested bytes are available")
	assert.True(t, k.pendingReady.isEmpty())

	require.Equal(t, 2, k.FifoWrite(&f, []byte{4, 5}))
	// FifoWrite's outermost scheduler unlock drains the pending-ready
	// list, so the woken consumer is already back in the ready table.
	assert.Equal(t, TaskReady, consumer.State(), "must wake exactly once all 5 bytes are available")

	assert.Same(t, &consumer, k.ready[0])
}

func TestFifoTryUnblockSkipsUnsatisfiedWaiter(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))

	var f Fifo
	k.FifoInit(&f, make([]byte, 8))

	var list listHead
	var task Task
	k.TaskCreate(&task, 0, func(TaskParameter) {}, nil)
	task.fifoWant = 10
	list.headInit()
	list.insertFirst(&task.eventNode)

	k.port.Lock()
	k.fifoTryUnblock(&list, 4)
	k.port.Unlock()

	assert.True(t, task.eventNode.isLinked(&list))
	assert.False(t, k.unlockHasWork)
}

func TestFifoWritePendBlocksWhenInsufficientRoom(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))

	var f Fifo
	k.FifoInit(&f, make([]byte, 2))

	var task Task
	k.TaskCreate(&task, 0, func(TaskParameter) {}, nil)
	k.currentTask = &task

	n := k.FifoWritePend(&f, []byte{1, 2, 3}, MaxDelay)
	k.currentTask = nil

	assert.Equal(t, 0, n)
	assert.Equal(t, TaskSuspended, task.State())
	assert.Equal(t, 3, task.fifoWant)
}
