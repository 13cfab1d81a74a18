package librertos

// Semaphore is a binary/counting semaphore, grounded on
// original_source/source/semaphore.c. Invariant: 0 <= count <= max.
type Semaphore struct {
	count int
	max   int
	event event
}

// SemaphoreInit initializes sem with an initial count and a maximum.
// Fatal assertion if count > max.
func (k *Kernel) SemaphoreInit(sem *Semaphore, count, max int) {
	assert(count <= max, "librertos: SemaphoreInit: count > max")
	sem.count = count
	sem.max = max
	sem.event.initRead()
}

// SemaphoreTake attempts to take sem without blocking. Returns false
// if sem's count is already zero.
func (k *Kernel) SemaphoreTake(sem *Semaphore) bool {
	k.port.Lock()
	defer k.port.Unlock()

	if sem.count > 0 {
		sem.count--
		return true
	}
	return false
}

// SemaphoreGive releases sem, waking the highest-priority waiter if
// any. Returns false if sem's count is already at max. One continuous
// critical section from the increment through the unblock, per
// spec.md section 4.8 and original_source/source/semaphore.c's
// semaphore_give.
func (k *Kernel) SemaphoreGive(sem *Semaphore) bool {
	k.schedulerLock()
	defer k.schedulerUnlock()

	k.port.Lock()
	defer k.port.Unlock()

	if sem.count >= sem.max {
		return false
	}
	sem.count++
	k.unblockOne(&sem.event.waitersRead)

	return true
}

// SemaphoreSuspend pre-pends and pends the current task on sem's
// event if sem is currently empty; a no-op if it is immediately
// available. Task-only.
func (k *Kernel) SemaphoreSuspend(sem *Semaphore, ticksToWait Tick) {
	k.schedulerLock()
	defer k.schedulerUnlock()

	k.port.Lock()
	task := k.currentTask
	k.port.Unlock()
	assert(task != nil, "librertos: SemaphoreSuspend: no current task")

	k.port.Lock()
	available := sem.count > 0
	if !available {
		k.prePend(&sem.event.waitersRead, task)
	}
	k.port.Unlock()

	if available {
		return
	}
	k.pendWithTimeout(&sem.event.waitersRead, task, ticksToWait)
}

// SemaphoreTakePend attempts SemaphoreTake; on failure, blocks the
// current task for up to ticksToWait. Returns the result of the
// (possibly retried, by the caller) take.
func (k *Kernel) SemaphoreTakePend(sem *Semaphore, ticksToWait Tick) bool {
	if k.SemaphoreTake(sem) {
		return true
	}
	if ticksToWait != 0 {
		k.SemaphoreSuspend(sem, ticksToWait)
	}
	return false
}

// GetCount returns sem's current count.
func (sem *Semaphore) GetCount() int { return sem.count }

// GetMax returns sem's configured maximum.
func (sem *Semaphore) GetMax() int { return sem.max }
