package librertos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKernel(t *testing.T, opts ...Option) *Kernel {
	t.Helper()
	k, err := New(opts...)
	require.NoError(t, err)
	return k
}

func TestTaskCreateInstallsReadyTask(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(3))

	var task Task
	k.TaskCreate(&task, 1, func(TaskParameter) {}, "param")

	assert.Equal(t, TaskReady, task.State())
	assert.Equal(t, Priority(1), task.Priority())
	assert.Same(t, &task, k.ready[1])
}

func TestTaskCreateRejectsDuplicatePriority(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))

	var a, b Task
	k.TaskCreate(&a, 0, func(TaskParameter) {}, nil)

	var captured error
	SetFatalHook(func(err error) { captured = err })
	defer SetFatalHook(defaultFatal)

	k.TaskCreate(&b, 0, func(TaskParameter) {}, nil)
	assert.Error(t, captured)
}

func TestTaskCreateRejectsOutOfRangePriority(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))

	var captured error
	SetFatalHook(func(err error) { captured = err })
	defer SetFatalHook(defaultFatal)

	var task Task
	k.TaskCreate(&task, 5, func(TaskParameter) {}, nil)
	assert.Error(t, captured)
}

func TestTaskDelayBlocksAndInsertsIntoDelayList(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))

	var task Task
	k.TaskCreate(&task, 0, func(TaskParameter) {}, nil)
	k.currentTask = &task

	k.TaskDelay(5)

	assert.Equal(t, TaskBlocked, task.State())
	assert.Nil(t, k.ready[0])
	assert.True(t, task.delayNode.isLinked(k.delayCurrent))
}

func TestTaskDelayZeroIsNoOp(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))

	var task Task
	k.TaskCreate(&task, 0, func(TaskParameter) {}, nil)
	k.currentTask = &task

	k.TaskDelay(0)

	assert.Equal(t, TaskReady, task.State())
}

func TestTaskSuspendAndResume(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))

	var task Task
	k.TaskCreate(&task, 0, func(TaskParameter) {}, nil)

	k.TaskSuspend(&task)
	assert.Equal(t, TaskSuspended, task.State())
	assert.Nil(t, k.ready[0])

	k.TaskResume(&task)
	k.drainPendingReady()
	assert.Equal(t, TaskReady, task.State())
	assert.Same(t, &task, k.ready[0])
}

func TestTaskSuspendDefaultsToCurrentTask(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))

	var task Task
	k.TaskCreate(&task, 0, func(TaskParameter) {}, nil)
	k.currentTask = &task

	k.TaskSuspend(nil)
	assert.Equal(t, TaskSuspended, task.State())
}

func TestGetCurrentTask(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))
	assert.Nil(t, k.GetCurrentTask())

	var task Task
	k.currentTask = &task
	assert.Same(t, &task, k.GetCurrentTask())
}

func TestTaskStatsZeroWithoutStatistics(t *testing.T) {
	var task Task
	runTime, n := task.Stats()
	assert.Zero(t, runTime)
	assert.Zero(t, n)
	assert.Zero(t, task.RunTimePercentile(50))
}
