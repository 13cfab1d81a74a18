package librertos

// Fifo is a byte-granular ring buffer, grounded on
// original_source/source/fifo.c. Unlike Queue it has no item framing:
// readers and writers transfer an arbitrary number of bytes per call.
// Invariant: free + used + wLock + rLock == capacity.
type Fifo struct {
	buf      []byte
	capacity int

	free, used   int
	wLock, rLock int
	head, tail   int

	event event
}

// FifoInit initializes f to use buf as its backing storage.
func (k *Kernel) FifoInit(f *Fifo, buf []byte) {
	assert(len(buf) > 0, "librertos: FifoInit: buf must not be empty")

	f.buf = buf
	f.capacity = len(buf)
	f.free = len(buf)
	f.used = 0
	f.wLock = 0
	f.rLock = 0
	f.head = 0
	f.tail = 0
	f.event.initReadWrite()
}

// copyRingOut copies n bytes starting at ring position start into dst,
// wrapping around capacity as needed. copyRingIn is its counterpart,
// copying n bytes from src into the ring starting at start.
func (f *Fifo) copyRingOut(dst []byte, start, n int) {
	for i := 0; i < n; i++ {
		dst[i] = f.buf[(start+i)%f.capacity]
	}
}

func (f *Fifo) copyRingIn(src []byte, start, n int) {
	for i := 0; i < n; i++ {
		f.buf[(start+i)%f.capacity] = src[i]
	}
}

// FifoRead dequeues up to len(out) bytes without blocking. It reads
// however many bytes are currently available, which may be fewer than
// requested (and zero if f is empty); the count actually read is
// returned.
func (k *Kernel) FifoRead(f *Fifo, out []byte) int {
	k.port.Lock()
	n := len(out)
	if n > f.used {
		n = f.used
	}
	if n == 0 {
		k.port.Unlock()
		return 0
	}
	slot := f.head
	f.head = (f.head + n) % f.capacity
	f.used -= n
	f.rLock += n
	outermost := f.rLock == n
	k.port.Unlock()

	k.schedulerLock()
	f.copyRingOut(out[:n], slot, n)

	k.port.Lock()
	if outermost {
		f.free += f.rLock
		f.rLock = 0
	}
	k.fifoTryUnblock(&f.event.waitersWrite, f.free)
	k.port.Unlock()
	k.schedulerUnlock()

	return n
}

// FifoWrite enqueues up to len(data) bytes without blocking, writing
// however many bytes currently fit (zero if f is full); the count
// actually written is returned.
func (k *Kernel) FifoWrite(f *Fifo, data []byte) int {
	k.port.Lock()
	n := len(data)
	if n > f.free {
		n = f.free
	}
	if n == 0 {
		k.port.Unlock()
		return 0
	}
	slot := f.tail
	f.tail = (f.tail + n) % f.capacity
	f.free -= n
	f.wLock += n
	outermost := f.wLock == n
	k.port.Unlock()

	k.schedulerLock()
	f.copyRingIn(data[:n], slot, n)

	k.port.Lock()
	if outermost {
		f.used += f.wLock
		f.wLock = 0
	}
	k.fifoTryUnblock(&f.event.waitersRead, f.used)
	k.port.Unlock()
	k.schedulerUnlock()

	return n
}

// fifoTryUnblock wakes the tail (highest-priority) waiter on list only
// if available now covers what it asked for (spec.md section 8's FIFO
// wakeup invariant: "a wakeup is delivered only when f.used >=
// w.value"). Unlike the generic unblockOne, this never pops a waiter
// whose request cannot yet be satisfied — the next producer/consumer
// call will test it again. Caller must hold k.port's critical section.
func (k *Kernel) fifoTryUnblock(list *listHead, available int) {
	if list.isEmpty() {
		return
	}
	node := list.getLast()
	task := node.owner.(*Task)
	if available < task.fifoWant {
		return
	}
	remove(node)
	k.pendingReady.insertFirst(node)
	k.unlockHasWork = true
}

// FifoPendRead pre-pends and pends the current task on f's read
// event, recording the number of bytes it wants so a future producer
// call can judge whether the tail waiter's request can be satisfied.
// Task-only.
func (k *Kernel) FifoPendRead(f *Fifo, want int, ticksToWait Tick) {
	k.port.Lock()
	task := k.currentTask
	k.port.Unlock()
	assert(task != nil, "librertos: FifoPendRead: no current task")
	task.fifoWant = want
	k.pendOn(&f.event.waitersRead, ticksToWait)
}

// FifoPendWrite pre-pends and pends the current task on f's write
// event, recording the number of bytes it wants to write.
// Task-only.
func (k *Kernel) FifoPendWrite(f *Fifo, want int, ticksToWait Tick) {
	k.port.Lock()
	task := k.currentTask
	k.port.Unlock()
	assert(task != nil, "librertos: FifoPendWrite: no current task")
	task.fifoWant = want
	k.pendOn(&f.event.waitersWrite, ticksToWait)
}

// FifoReadPend delivers len(out) bytes only as a whole: if fewer than
// len(out) bytes are currently available, nothing is read and the
// current task blocks (for up to ticksToWait) until a producer call
// makes at least len(out) bytes available — matching spec.md section
// 4.11's "tail.value <= used" coalesced-wakeup rule, rather than
// returning a short read. Returns the number of bytes read: either 0
// (blocked, or ticksToWait == 0) or len(out).
func (k *Kernel) FifoReadPend(f *Fifo, out []byte, ticksToWait Tick) int {
	k.port.Lock()
	available := f.used
	k.port.Unlock()

	if available >= len(out) {
		return k.FifoRead(f, out)
	}
	if ticksToWait != 0 {
		k.FifoPendRead(f, len(out), ticksToWait)
	}
	return 0
}

// FifoWritePend is FifoReadPend's write-side symmetric counterpart:
// len(data) bytes are written only as a whole, blocking the current
// task until that much room exists.
func (k *Kernel) FifoWritePend(f *Fifo, data []byte, ticksToWait Tick) int {
	k.port.Lock()
	available := f.free
	k.port.Unlock()

	if available >= len(data) {
		return k.FifoWrite(f, data)
	}
	if ticksToWait != 0 {
		k.FifoPendWrite(f, len(data), ticksToWait)
	}
	return 0
}

// Used returns the number of occupied bytes.
func (f *Fifo) Used() int { return f.used }

// Free returns the number of unoccupied bytes.
func (f *Fifo) Free() int { return f.free }

// Length returns f's total capacity in bytes.
func (f *Fifo) Length() int { return f.capacity }

// Empty reports whether f currently holds no bytes.
func (f *Fifo) Empty() bool { return f.Used() == 0 }

// Full reports whether f has no free bytes.
func (f *Fifo) Full() bool { return f.Free() == 0 }
