package librertos

import "time"

// Task is the kernel's task control block, grounded on
// original_source/LibreRTOS.h's task_t / original_source/src's
// task_t. The application owns the memory; the kernel only links and
// unlinks the two embedded list nodes. There is no destroy step — the
// caller guarantees the Task outlives every reference the kernel holds
// to it.
type Task struct {
	id       int
	state    TaskState
	function TaskFunction
	param    TaskParameter

	priority         Priority
	originalPriority Priority // restored on mutex unlock once PI ends

	delayNode listNode // membership in a delay list
	eventNode listNode // membership in an event list

	// fifoWant is the byte count a Fifo waiter has requested. It is
	// kept separate from the event node's ordering so FIFO waiters
	// still wake in strict priority order (spec.md section 9).
	fifoWant int

	// statistics, populated only when the Statistics option is set.
	runTime      time.Duration
	numSchedules uint64
	samples      *ringSamples[time.Duration]
}

// Priority returns the task's current effective priority (which may
// be temporarily raised by mutex priority inheritance).
func (t *Task) Priority() Priority { return t.priority }

// State returns the task's current lifecycle state.
func (t *Task) State() TaskState { return t.state }

// Stats returns the task's accumulated run time and schedule count.
// Both are zero unless the owning Kernel was created with
// WithStatistics(true).
func (t *Task) Stats() (runTime time.Duration, numSchedules uint64) {
	return t.runTime, t.numSchedules
}

// RunTimePercentile returns the p-th percentile (0-100) of the task's
// most recent dispatch run times. Only populated when the owning
// Kernel was created with WithStatistics(true); returns zero before
// the first recorded dispatch.
func (t *Task) RunTimePercentile(p float64) time.Duration {
	if t.samples == nil {
		return 0
	}
	return t.samples.Percentile(p)
}

var nextTaskID int

func allocTaskID() int {
	nextTaskID++
	return nextTaskID
}

// TaskCreate installs task at priority, to run fn with param whenever
// scheduled. priority must be unoccupied and within
// [0, MaxPriority). Complexity O(1).
func (k *Kernel) TaskCreate(task *Task, priority Priority, fn TaskFunction, param TaskParameter) {
	inRange := priority >= 0 && priority < k.maxPriority
	assert(inRange, "librertos: TaskCreate: priority out of range")
	if !inRange {
		return
	}

	k.port.Lock()
	defer k.port.Unlock()

	assert(k.ready[priority] == nil, "librertos: TaskCreate: priority already in use")

	task.id = allocTaskID()
	task.state = TaskReady
	task.function = fn
	task.param = param
	task.priority = priority
	task.originalPriority = priority
	nodeInit(&task.delayNode, task)
	nodeInit(&task.eventNode, task)

	k.ready[priority] = task
	logDebug(k.logger, "task", task.id, priority, "task created")
}

// TaskDelay blocks the currently running task for ticksToWait ticks.
// It is a fatal assertion to call this with no current task (e.g.
// from an interrupt). Complexity O(n) in the target delay list's
// length (insertOrdered).
func (k *Kernel) TaskDelay(ticksToWait Tick) {
	k.schedulerLock()
	defer k.schedulerUnlock()

	k.port.Lock()
	task := k.currentTask
	k.port.Unlock()
	assert(task != nil, "librertos: TaskDelay: no current task")

	if ticksToWait == 0 {
		return
	}

	k.port.Lock()
	defer k.port.Unlock()
	k.taskDelayLocked(task, ticksToWait)
}

// taskDelayLocked implements spec.md 4.7's task_delay, assuming
// k.port is already held.
func (k *Kernel) taskDelayLocked(task *Task, ticksToWait Tick) {
	now := k.tick + k.delayedTicks
	wake := now + ticksToWait

	if wake > now {
		k.delayCurrent.insertOrdered(&task.delayNode, wake)
	} else {
		// Wrapped past the tick-counter boundary.
		k.delayOverflow.insertOrdered(&task.delayNode, wake)
	}

	task.state = TaskBlocked
	if k.ready[task.priority] == task {
		// Priority inheritance may have already moved a different,
		// boosted task into this slot; only clear our own.
		k.ready[task.priority] = nil
	}
}

// TaskResume moves task directly to the pending-ready list regardless
// of what it is currently waiting on; the actual promotion to Ready
// happens on the next scheduler unlock. Safe to call from any
// context, including an interrupt.
func (k *Kernel) TaskResume(task *Task) {
	k.schedulerLock()
	defer k.schedulerUnlock()

	k.port.Lock()
	defer k.port.Unlock()

	remove(&task.delayNode)
	remove(&task.eventNode)
	k.pendingReady.insertFirst(&task.eventNode)
	k.unlockHasWork = true
	logDebug(k.logger, "task", task.id, task.priority, "task resumed")
}

// TaskSuspend marks task (or the current task, if task is nil)
// Suspended. Only TaskResume can bring it back to Ready. Calling this
// with task == nil and no current task is a fatal assertion.
func (k *Kernel) TaskSuspend(task *Task) {
	k.schedulerLock()
	defer k.schedulerUnlock()

	k.port.Lock()
	if task == nil {
		task = k.currentTask
	}
	k.port.Unlock()
	assert(task != nil, "librertos: TaskSuspend: no current task")

	k.port.Lock()
	defer k.port.Unlock()

	task.state = TaskSuspended
	if k.ready[task.priority] == task {
		// Priority inheritance may have already moved a different,
		// boosted task into this slot; only clear our own.
		k.ready[task.priority] = nil
	}
}

// GetCurrentTask returns the task currently being dispatched, or nil
// when called from interrupt context (no task is running).
func (k *Kernel) GetCurrentTask() *Task {
	k.port.Lock()
	defer k.port.Unlock()
	return k.currentTask
}
