package librertos

// event is the pair of ordered wait lists every blockable primitive
// embeds (spec.md section 4.6). Read-only primitives (Semaphore,
// Mutex) use only waitersRead; read/write primitives (Queue, Fifo)
// also use waitersWrite.
//
// Each list is ordered so the tail is the highest-priority waiter.
// Per the design notes' resolution of the "FIFO value field" source
// ambiguity, the node's value field is never used to carry an
// ordering key here — ordering is always by the waiting task's
// Priority(), read straight off its owner. FIFO's requested byte
// count is carried in a separate field on the task (fifoWant) so it
// never competes with priority ordering.
type event struct {
	waitersRead  listHead
	waitersWrite listHead
}

func (e *event) initRead() {
	e.waitersRead.headInit()
}

func (e *event) initReadWrite() {
	e.waitersRead.headInit()
	e.waitersWrite.headInit()
}

// prePend implements spec.md section 4.6's pre-pend: insert task's
// event node at the head of list (the lowest-priority end) so an
// interrupt completing the event can find and remove it while
// pendWithTimeout performs its ordered walk. Caller must hold the
// scheduler lock and k.port's critical section.
func (k *Kernel) prePend(list *listHead, task *Task) {
	list.insertFirst(&task.eventNode)
}

// pendWithTimeout implements spec.md section 4.6's pend-with-timeout.
// Caller must hold the scheduler lock; ticksToWait must not be zero.
// Complexity O(n) in list's length; requires interrupts enabled so an
// ISR can make progress during the scan.
func (k *Kernel) pendWithTimeout(list *listHead, task *Task, ticksToWait Tick) {
	priority := task.priority
	node := &task.eventNode

	k.port.Lock()
	var pos *listNode
	for {
		pos = list.sentinel.prev

		for pos != &list.sentinel {
			k.port.Unlock()

			ownerPriority := pos.owner.(*Task).priority

			// Strictly-less (not <=) so that a newly arriving waiter
			// of equal priority is inserted below every existing
			// equal-priority waiter, preserving FIFO order among
			// ties per spec.md section 5's ordering guarantee — the
			// source this is grounded on uses <= here, which instead
			// produces LIFO ties; see DESIGN.md.
			if ownerPriority < priority {
				k.port.Lock()
				break
			}

			k.port.Lock()
			if pos.list != list {
				// An interrupt removed this candidate.
				break
			}

			pos = pos.prev
		}

		if pos != &list.sentinel && pos.list != list && node.list == list {
			// Candidate was removed from the list but our own node
			// was not; restart the search from the tail.
			continue
		}
		break
	}

	if node.list != list {
		// An interrupt resumed the task while we were scanning.
		k.port.Unlock()
		return
	}

	if node != pos {
		remove(node)
		list.insertAfter(pos, node)
	}

	if ticksToWait == MaxDelay {
		task.state = TaskSuspended
		if k.ready[task.priority] == task {
			// Priority inheritance may have already moved a different,
			// boosted task into this slot; only clear our own.
			k.ready[task.priority] = nil
		}
		k.port.Unlock()
		return
	}

	k.port.Unlock()
	k.taskDelayLockedEntry(task, ticksToWait)
}

// taskDelayLockedEntry re-enters the critical section to perform the
// delay-list insertion half of task_delay, mirroring how
// OSEventPendTask calls plain TaskDelay() after re-enabling
// interrupts. task is always the current task here (pendWithTimeout
// is task-only), so this bypasses the "no current task" assertion in
// the public TaskDelay and goes straight to the shared helper.
func (k *Kernel) taskDelayLockedEntry(task *Task, ticksToWait Tick) {
	k.port.Lock()
	defer k.port.Unlock()
	k.taskDelayLocked(task, ticksToWait)
}

// unblockOne implements spec.md section 4.6's unblock-one: remove the
// tail (highest-priority) waiter, if any, and move it to the
// pending-ready list; the actual ready-table write happens later, in
// drainPendingReady. Caller must hold the scheduler lock and k.port's
// critical section.
func (k *Kernel) unblockOne(list *listHead) {
	if list.isEmpty() {
		return
	}
	node := list.getLast()
	remove(node)
	k.pendingReady.insertFirst(node)
	k.unlockHasWork = true
}
