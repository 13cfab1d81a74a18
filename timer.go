package librertos

// TimerType selects a Timer's re-arming behavior, grounded on
// original_source/source/timer.c's timer_type_t.
type TimerType uint8

const (
	// TimerOneShot fires once, period ticks after Start/Reset, then
	// stops.
	TimerOneShot TimerType = iota
	// TimerAuto fires every period ticks, re-arming itself each time
	// it runs.
	TimerAuto
	// TimerNoPeriod fires once, immediately the next time the timer
	// task is dispatched, without ever entering the ordered wake-tick
	// list. Its period is unused and must be zero.
	TimerNoPeriod
)

// String returns a human-readable representation of the timer type.
func (k TimerType) String() string {
	switch k {
	case TimerOneShot:
		return "OneShot"
	case TimerAuto:
		return "Auto"
	case TimerNoPeriod:
		return "NoPeriod"
	default:
		return "Unknown"
	}
}

// Timer is a software timer, grounded on
// original_source/source/timer.c. Timers are serviced by a dedicated
// task (started with StartTimerTask) rather than from interrupt
// context, so callbacks run with the same scheduling guarantees as any
// other task body.
type Timer struct {
	kind     TimerType
	period   Tick
	callback func(*Timer)
	running  bool
	node     listNode // membership in timerList or timerUnordered
}

// TimerInit initializes t with its type, period, and callback, as not
// running. Fatal assertion if period is not > 0 for TimerOneShot/
// TimerAuto, or is nonzero for TimerNoPeriod.
func (k *Kernel) TimerInit(t *Timer, kind TimerType, period Tick, callback func(*Timer)) {
	if kind == TimerNoPeriod {
		assert(period == 0, "librertos: TimerInit: NoPeriod timers must use period 0")
	} else {
		assert(period > 0, "librertos: TimerInit: period must be > 0")
	}

	nodeInit(&t.node, t)
	t.kind = kind
	t.period = period
	t.callback = callback
	t.running = false
}

// TimerStart arms t using its configured type/period/callback, but
// only if it is not already running — a no-op otherwise, so an
// already-armed timer's remaining wait is left undisturbed, per
// original_source/source/timer.c's TimerStart. Fatal assertion if
// software timers were not enabled via WithSoftwareTimers(true). Without
// StartTimerTask the timer is armed but nothing services it.
func (k *Kernel) TimerStart(t *Timer) {
	if !t.IsRunning() {
		k.TimerReset(t)
	}
}

// TimerReset (re)arms t unconditionally, using its existing
// type/period/callback configuration, as if freshly started. If t was
// already running it is first unlinked from wherever it is currently
// queued. Fatal assertion if software timers were not enabled via
// WithSoftwareTimers(true). Without StartTimerTask the timer is armed
// but nothing services it.
func (k *Kernel) TimerReset(t *Timer) {
	assert(k.softwareTimers, "librertos: TimerReset: software timers not enabled")
	if !k.softwareTimers {
		return
	}

	k.schedulerLock()
	defer k.schedulerUnlock()

	k.port.Lock()
	if t.node.list != nil {
		remove(&t.node)
	}
	t.running = true
	t.node.value = k.tick + k.delayedTicks + t.period
	k.timerUnordered.insertFirst(&t.node)
	k.port.Unlock()

	if k.timerTask != nil {
		k.TaskResume(k.timerTask)
	}
}

// TimerStop disarms t. A no-op if t is not currently running.
func (k *Kernel) TimerStop(t *Timer) {
	k.port.Lock()
	defer k.port.Unlock()

	if !t.running {
		return
	}
	t.running = false
	remove(&t.node)
}

// IsRunning reports whether t is currently armed.
func (t *Timer) IsRunning() bool { return t.running }

// StartTimerTask creates the dedicated timer-service task at priority
// and enables timer processing. Call once, after New and before
// Start. Fatal assertion if software timers were not enabled via
// WithSoftwareTimers(true).
func (k *Kernel) StartTimerTask(priority Priority) *Task {
	assert(k.softwareTimers, "librertos: StartTimerTask: software timers not enabled")
	assert(k.timerTask == nil, "librertos: StartTimerTask: already started")

	task := &Task{}
	k.timerTask = task
	k.TaskCreate(task, priority, k.timerTaskFunction, nil)
	return task
}

// timerTaskFunction is the body of the timer-service task. Like every
// task body in this package it runs one pass per dispatch and returns
// to let the scheduler's own loop provide the "forever": merge newly
// (re)started timers into the ordered list (firing TimerNoPeriod
// timers immediately instead, per original_source/source/timer.c's
// OSTimerFunction), then either fire the one ordered timer whose wake
// tick has arrived or delay until the next is due.
func (k *Kernel) timerTaskFunction(TaskParameter) {
	k.port.Lock()
	for !k.timerUnordered.isEmpty() {
		node := k.timerUnordered.getFirst()
		timer := node.owner.(*Timer)
		remove(node)

		if timer.kind == TimerNoPeriod {
			timer.running = false
			k.port.Unlock()
			if timer.callback != nil {
				timer.callback(timer)
			}
			k.port.Lock()
			continue
		}

		k.timerList.insertOrdered(node, node.value)
	}

	first := k.timerList.getFirst()
	if first == nil {
		k.port.Unlock()
		k.TaskDelay(MaxDelay)
		return
	}

	// DiffTick's signed interpretation of the unsigned subtraction
	// stays correct across tick-counter wraparound.
	diff := DiffTick(first.value - k.tick)
	if diff > 0 {
		k.port.Unlock()
		k.TaskDelay(Tick(diff))
		return
	}

	timer := first.owner.(*Timer)
	remove(&timer.node)
	k.port.Unlock()

	if timer.callback != nil {
		timer.callback(timer)
	}

	k.port.Lock()
	if timer.kind == TimerAuto && timer.running {
		timer.node.value = k.tick + k.delayedTicks + timer.period
		k.timerList.insertOrdered(&timer.node, timer.node.value)
	} else {
		timer.running = false
	}
	k.port.Unlock()
}
