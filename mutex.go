package librertos

// Mutex is a recursive mutex with priority inheritance (always on),
// grounded on original_source/src/mutex.c (the newer, PI-capable
// tree — spec.md section 9 directs preferring it over
// original_source/source/mutex.c's non-PI version). Invariant:
// count == 0 iff owner == nil.
type Mutex struct {
	count int
	owner *Task
	event event
}

// MutexInit initializes m as unlocked.
func (k *Kernel) MutexInit(m *Mutex) {
	m.count = 0
	m.owner = nil
	m.event.initRead()
}

// MutexLock attempts to take m without blocking. Succeeds immediately
// if m is unlocked or already owned by the current task (recursive
// acquire); otherwise returns false.
func (k *Kernel) MutexLock(m *Mutex) bool {
	k.port.Lock()
	defer k.port.Unlock()

	current := k.currentTask
	if m.count == 0 || m.owner == current {
		m.count++
		m.owner = current
		return true
	}
	return false
}

// MutexUnlock releases one level of m. Calling this when m is not
// locked by the current task is a fatal assertion. When the recursive
// count reaches zero, the highest-priority waiter (if any) is woken
// and, if priority inheritance had raised the owner's effective
// priority, it is restored to the owner's original priority. Holds one
// continuous critical section from the decrement through the unblock,
// per original_source/src/mutex.c's mutex_unlock: releasing and
// reacquiring the lock in between would let a concurrent MutexLock (an
// any-context call) install a new owner that this call would then
// unconditionally overwrite with nil.
func (k *Kernel) MutexUnlock(m *Mutex) bool {
	k.schedulerLock()
	defer k.schedulerUnlock()

	k.port.Lock()
	defer k.port.Unlock()

	current := k.currentTask
	assert(m.count > 0 && m.owner == current, "librertos: MutexUnlock: not locked by current task")

	m.count--
	if m.count != 0 {
		return true
	}

	owner := m.owner
	if owner != nil && owner.priority != owner.originalPriority {
		k.setPriorityLocked(owner, owner.originalPriority)
	}
	m.owner = nil
	k.unblockOne(&m.event.waitersRead)

	return true
}

// MutexSuspend implements priority inheritance and pends the current
// task on m's event, if m is locked by another task. A no-op if m is
// available. Task-only.
func (k *Kernel) MutexSuspend(m *Mutex, ticksToWait Tick) {
	k.schedulerLock()
	defer k.schedulerUnlock()

	k.port.Lock()
	task := k.currentTask
	k.port.Unlock()
	assert(task != nil, "librertos: MutexSuspend: no current task")

	k.port.Lock()
	owner := m.owner
	available := owner == nil || owner == task
	if !available && ticksToWait != 0 {
		if task.priority > owner.priority {
			k.setPriorityLocked(owner, task.priority)
		}
		k.prePend(&m.event.waitersRead, task)
	}
	k.port.Unlock()

	if available || ticksToWait == 0 {
		return
	}
	k.pendWithTimeout(&m.event.waitersRead, task, ticksToWait)
}

// MutexLockPend attempts MutexLock; on failure, blocks the current
// task for up to ticksToWait (with priority inheritance).
func (k *Kernel) MutexLockPend(m *Mutex, ticksToWait Tick) bool {
	if k.MutexLock(m) {
		return true
	}
	if ticksToWait != 0 {
		k.MutexSuspend(m, ticksToWait)
	}
	return false
}

// GetCount returns m's current recursive lock count.
func (m *Mutex) GetCount() int { return m.count }

// GetOwner returns m's current owner, or nil if unlocked.
func (m *Mutex) GetOwner() *Task { return m.owner }

// setPriorityLocked changes task's effective priority, moving it in
// the ready table if currently ready and re-inserting its event node
// (preserving membership) if currently queued on a primitive's event
// list. Caller must hold k.port's critical section. Grounded on
// original_source/src/mutex.c's task_set_priority; nested boosts
// compose by the caller only ever raising toward
// max(original, highest active waiter) and only ever restoring to
// original once the owning mutex's count reaches zero.
func (k *Kernel) setPriorityLocked(task *Task, newPriority Priority) {
	if task.priority == newPriority {
		return
	}

	old := task.priority
	if k.ready[old] == task {
		k.ready[old] = nil
		k.ready[newPriority] = task
	}

	if list := task.eventNode.list; list != nil {
		remove(&task.eventNode)
		task.priority = newPriority
		list.insertByPriority(&task.eventNode, newPriority)
		return
	}

	task.priority = newPriority
}
