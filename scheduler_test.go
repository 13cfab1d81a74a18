package librertos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunDispatchesHighestPriorityFirst(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(3))

	var order []string
	var low, high Task
	k.TaskCreate(&low, 0, func(TaskParameter) {
		order = append(order, "low")
		k.TaskSuspend(&low)
	}, nil)
	k.TaskCreate(&high, 2, func(TaskParameter) {
		order = append(order, "high")
		k.TaskSuspend(&high)
	}, nil)

	k.SchedulerRun()

	assert.Equal(t, []string{"high", "low"}, order)
}

func TestPickNextSkipsCooperativeBandWhileTaskRunning(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(3), WithPreemptLimit(2))

	var coop Task
	k.TaskCreate(&coop, 1, func(TaskParameter) {}, nil)

	k.port.Lock()
	k.currentTask = &Task{priority: 0}
	k.port.Unlock()

	assert.Nil(t, k.pickNext())
}

func TestPickNextReturnsNilWhenNoTaskOutranksCurrent(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(3))

	var task Task
	k.TaskCreate(&task, 1, func(TaskParameter) {}, nil)

	k.port.Lock()
	k.currentTask = &Task{priority: 1}
	k.port.Unlock()

	assert.Nil(t, k.pickNext())
}

func TestDispatchRestoresOutgoingCurrentTask(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(2))

	var inner *Task
	var task Task
	k.TaskCreate(&task, 0, func(TaskParameter) {
		inner = k.GetCurrentTask()
		k.TaskSuspend(&task)
	}, nil)

	k.schedulerLock()
	k.dispatch(&task)
	k.schedulerUnlock()

	assert.Same(t, &task, inner)
	assert.Nil(t, k.GetCurrentTask())
}

func TestDispatchReentersSchedulerOnPreemption(t *testing.T) {
	k := newTestKernel(t, WithMaxPriority(3), WithPreemption(true))

	var ran []string
	var low, high Task
	k.TaskCreate(&high, 2, func(TaskParameter) {
		ran = append(ran, "high")
		k.TaskSuspend(&high)
	}, nil)
	k.TaskSuspend(&high)
	k.TaskCreate(&low, 0, func(TaskParameter) {
		ran = append(ran, "low-start")
		k.TaskResume(&high)
		ran = append(ran, "low-end")
		k.TaskSuspend(&low)
	}, nil)

	k.SchedulerRun()

	assert.Equal(t, []string{"low-start", "high", "low-end"}, ran)
}
