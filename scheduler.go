package librertos

import "time"

// SchedulerRun implements spec.md section 4.3's real scheduler: it
// repeatedly picks the highest-priority ready task strictly above the
// current priority and runs it to its next voluntary yield, until no
// eligible task remains. The caller may already hold the scheduler
// lock any number of times; SchedulerRun always takes one more level
// itself and releases it on return.
func (k *Kernel) SchedulerRun() {
	k.schedulerLock()
	defer k.schedulerUnlock()

	for {
		task := k.pickNext()
		if task == nil {
			return
		}
		k.dispatch(task)
	}
}

// pickNext selects the next task to dispatch, or nil if none is
// eligible. Complexity O(MaxPriority).
func (k *Kernel) pickNext() *Task {
	k.port.Lock()
	defer k.port.Unlock()

	floor := NoTask
	if k.currentTask != nil {
		floor = k.currentTask.priority
	}

	for p := k.maxPriority - 1; p > floor; p-- {
		task := k.ready[p]
		if task == nil {
			continue
		}
		if p < k.preemptLimit && k.currentTask != nil {
			// Cooperative band: only selectable when nothing is
			// currently running.
			continue
		}
		return task
	}
	return nil
}

// dispatch is the run contract from spec.md section 4.3: save the
// outgoing current task, install task as current, step the scheduler
// lock out and back in around the call to task.function, then restore
// the outgoing task.
func (k *Kernel) dispatch(task *Task) {
	var start time.Duration
	if k.statistics {
		start = k.clock()
	}

	k.port.Lock()
	saved := k.currentTask
	k.currentTask = task
	k.port.Unlock()

	k.schedulerUnlock()
	task.function(task.param)
	k.schedulerLock()

	k.port.Lock()
	k.currentTask = saved
	if k.statistics {
		elapsed := k.clock() - start
		task.runTime += elapsed
		task.numSchedules++
		k.totalRunTime += elapsed
		if task.samples == nil {
			task.samples = newRingSamples[time.Duration](runTimeSampleCapacity)
		}
		task.samples.Push(elapsed)
	}
	k.port.Unlock()
}
