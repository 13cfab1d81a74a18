package librertos

// Queue is a fixed-size ring buffer of equal-sized items, grounded on
// original_source/source/queue.c. Invariant:
// free + used + wLock + rLock == capacity. wLock/rLock let concurrent
// producers (or consumers) copy their payload outside the critical
// section while only the producer (or consumer) that found the lock
// at zero on entry commits the accumulated count change.
type Queue struct {
	itemSize int
	buf      []byte
	capacity int // in items

	free, used   int
	wLock, rLock int
	head, tail   int // item indices

	event event
}

// QueueInit initializes q to use buf as backing storage for length
// items of itemSize bytes each. buf must be at least
// length*itemSize bytes.
func (k *Kernel) QueueInit(q *Queue, buf []byte, length, itemSize int) {
	assert(length > 0 && itemSize > 0, "librertos: QueueInit: length and itemSize must be > 0")
	assert(len(buf) >= length*itemSize, "librertos: QueueInit: buf too small")

	q.itemSize = itemSize
	q.buf = buf
	q.capacity = length
	q.free = length
	q.used = 0
	q.wLock = 0
	q.rLock = 0
	q.head = 0
	q.tail = 0
	q.event.initReadWrite()
}

// QueueRead attempts to dequeue one item into out (which must be at
// least ItemSize bytes) without blocking. Returns false if q is
// empty.
func (k *Kernel) QueueRead(q *Queue, out []byte) bool {
	k.port.Lock()
	if q.used == 0 {
		k.port.Unlock()
		return false
	}
	slot := q.head
	q.head = (q.head + 1) % q.capacity
	q.used--
	q.rLock++
	outermost := q.rLock == 1
	k.port.Unlock()

	k.schedulerLock()
	copy(out, q.buf[slot*q.itemSize:(slot+1)*q.itemSize])

	k.port.Lock()
	if outermost {
		q.free += q.rLock
		q.rLock = 0
	}
	k.unblockOne(&q.event.waitersWrite)
	k.port.Unlock()
	k.schedulerUnlock()

	return true
}

// QueueWrite attempts to enqueue one item (read from data, which must
// be at least ItemSize bytes) without blocking. Returns false if q is
// full.
func (k *Kernel) QueueWrite(q *Queue, data []byte) bool {
	k.port.Lock()
	if q.free == 0 {
		k.port.Unlock()
		return false
	}
	slot := q.tail
	q.tail = (q.tail + 1) % q.capacity
	q.free--
	q.wLock++
	outermost := q.wLock == 1
	k.port.Unlock()

	k.schedulerLock()
	copy(q.buf[slot*q.itemSize:(slot+1)*q.itemSize], data)

	k.port.Lock()
	if outermost {
		q.used += q.wLock
		q.wLock = 0
	}
	k.unblockOne(&q.event.waitersRead)
	k.port.Unlock()
	k.schedulerUnlock()

	return true
}

// QueuePendRead pre-pends and pends the current task on q's read
// event. Task-only.
func (k *Kernel) QueuePendRead(q *Queue, ticksToWait Tick) {
	k.pendOn(&q.event.waitersRead, ticksToWait)
}

// QueuePendWrite pre-pends and pends the current task on q's write
// event. Task-only.
func (k *Kernel) QueuePendWrite(q *Queue, ticksToWait Tick) {
	k.pendOn(&q.event.waitersWrite, ticksToWait)
}

// QueueReadPend attempts QueueRead; on failure, blocks the current
// task for up to ticksToWait.
func (k *Kernel) QueueReadPend(q *Queue, out []byte, ticksToWait Tick) bool {
	if k.QueueRead(q, out) {
		return true
	}
	if ticksToWait != 0 {
		k.QueuePendRead(q, ticksToWait)
	}
	return false
}

// QueueWritePend attempts QueueWrite; on failure, blocks the current
// task for up to ticksToWait.
func (k *Kernel) QueueWritePend(q *Queue, data []byte, ticksToWait Tick) bool {
	if k.QueueWrite(q, data) {
		return true
	}
	if ticksToWait != 0 {
		k.QueuePendWrite(q, ticksToWait)
	}
	return false
}

// pendOn is the shared pre-pend + pend-with-timeout sequence used by
// Queue and Fifo's PendRead/PendWrite methods. Task-only.
func (k *Kernel) pendOn(list *listHead, ticksToWait Tick) {
	k.schedulerLock()
	defer k.schedulerUnlock()

	k.port.Lock()
	task := k.currentTask
	k.port.Unlock()
	assert(task != nil, "librertos: pend: no current task")

	k.port.Lock()
	k.prePend(list, task)
	k.port.Unlock()

	k.pendWithTimeout(list, task, ticksToWait)
}

// Used returns the number of occupied item slots.
func (q *Queue) Used() int { return q.used }

// Free returns the number of unoccupied item slots.
func (q *Queue) Free() int { return q.free }

// Length returns q's total capacity in items.
func (q *Queue) Length() int { return q.capacity }

// ItemSize returns the configured per-item size in bytes.
func (q *Queue) ItemSize() int { return q.itemSize }

// Empty reports whether q currently holds no items.
func (q *Queue) Empty() bool { return q.Used() == 0 }

// Full reports whether q has no free slots.
func (q *Queue) Full() bool { return q.Free() == 0 }
