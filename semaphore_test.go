package librertos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemaphoreInitRejectsCountAboveMax(t *testing.T) {
	k := newTestKernel(t)

	var captured error
	SetFatalHook(func(err error) { captured = err })
	defer SetFatalHook(defaultFatal)

	var sem Semaphore
	k.SemaphoreInit(&sem, 2, 1)
	assert.Error(t, captured)
}

func TestSemaphoreTakeAndGive(t *testing.T) {
	k := newTestKernel(t)

	var sem Semaphore
	k.SemaphoreInit(&sem, 1, 2)

	assert.True(t, k.SemaphoreTake(&sem))
	assert.Equal(t, 0, sem.GetCount())
	assert.False(t, k.SemaphoreTake(&sem))

	assert.True(t, k.SemaphoreGive(&sem))
	assert.Equal(t, 1, sem.GetCount())
}

func TestSemaphoreGiveFailsWhenSaturated(t *testing.T) {
	k := newTestKernel(t)

	var sem Semaphore
	k.SemaphoreInit(&sem, 2, 2)

	assert.False(t, k.SemaphoreGive(&sem))
	assert.Equal(t, 2, sem.GetCount())
}

func TestSemaphoreGiveWakesHighestPriorityWaiter(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(3))

	var sem Semaphore
	k.SemaphoreInit(&sem, 0, 1)

	var low, high Task
	k.TaskCreate(&low, 0, func(TaskParameter) {}, nil)
	k.TaskCreate(&high, 2, func(TaskParameter) {}, nil)

	k.currentTask = &low
	k.SemaphoreSuspend(&sem, MaxDelay)
	k.currentTask = &high
	k.SemaphoreSuspend(&sem, MaxDelay)
	k.currentTask = nil

	assert.Equal(t, TaskSuspended, low.State())
	assert.Equal(t, TaskSuspended, high.State())

	k.SemaphoreGive(&sem)

	// SemaphoreGive's outermost scheduler unlock has already drained the
	// pending-ready list, so the woken waiter is back in the ready table.
	assert.Same(t, &high, k.ready[2])
	assert.Equal(t, TaskReady, high.State())
	assert.Equal(t, TaskSuspended, low.State())
}

func TestSemaphoreSuspendNoOpWhenAvailable(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))

	var sem Semaphore
	k.SemaphoreInit(&sem, 1, 1)

	var task Task
	k.TaskCreate(&task, 0, func(TaskParameter) {}, nil)
	k.currentTask = &task

	k.SemaphoreSuspend(&sem, MaxDelay)
	k.currentTask = nil

	assert.Equal(t, TaskReady, task.State())
	assert.False(t, task.eventNode.isLinked(&sem.event.waitersRead))
}

func TestSemaphoreTakePendBlocksOnFailure(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))

	var sem Semaphore
	k.SemaphoreInit(&sem, 0, 1)

	var task Task
	k.TaskCreate(&task, 0, func(TaskParameter) {}, nil)
	k.currentTask = &task

	ok := k.SemaphoreTakePend(&sem, MaxDelay)
	k.currentTask = nil

	assert.False(t, ok)
	assert.Equal(t, TaskSuspended, task.State())
}
