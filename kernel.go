package librertos

import "time"

// Kernel is the process-wide scheduler state described in spec.md
// section 3 ("Global state"), grounded on
// original_source/LibreRTOS.h's libreRtosState_t and
// original_source/include/librertos_impl.h. Unlike the C original
// there is no single hidden process-wide singleton: a Kernel is an
// explicit value so a test process can run several independent
// kernels, but exactly one Kernel exists per simulated target, and its
// own state is singly owned by it the same way the C global was
// singly owned by the one process it ran in.
type Kernel struct {
	maxPriority  Priority
	preemption   bool
	preemptLimit Priority

	softwareTimers bool
	stateGuards    bool
	statistics     bool

	logger Logger
	clock  func() time.Duration
	port   Port

	runState *fastState

	// guard0/guardEnd bracket the mutable fields below when
	// stateGuards is enabled; StateCheck reports whether either has
	// been overwritten.
	guard0 uint32

	ready []*Task

	tick         Tick
	delayedTicks Tick

	// delayListA/B are swapped between "current" and "overflow" roles
	// on every tick-counter wraparound; delayCurrent/delayOverflow
	// always point at the correct one.
	delayListA, delayListB   listHead
	delayCurrent, delayOverflow *listHead

	pendingReady listHead

	currentTask        *Task
	schedulerLockDepth int
	unlockHasWork      bool
	higherReady        bool // preemption: a higher-priority task became ready

	timerTask      *Task
	timerList      listHead // ordered by absolute wake tick
	timerUnordered listHead // staging list for newly (re)started timers

	totalRunTime  time.Duration
	noTaskRunTime time.Duration

	guardEnd uint32
}

// New constructs a Kernel. Call TaskCreate for every task before
// Start.
func New(opts ...Option) (*Kernel, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	k := &Kernel{
		maxPriority:    cfg.maxPriority,
		preemption:     cfg.preemption,
		preemptLimit:   cfg.preemptLimit,
		softwareTimers: cfg.softwareTimers,
		stateGuards:    cfg.stateGuards,
		statistics:     cfg.statistics,
		logger:         cfg.logger,
		clock:          cfg.clock,
		port:           cfg.port,
		runState:       newFastState(),
		ready:          make([]*Task, cfg.maxPriority),
	}
	if k.clock == nil {
		k.clock = k.port.SystemRuntime
	}
	if k.stateGuards {
		k.guard0 = stateGuardMagic
		k.guardEnd = stateGuardMagic
	}

	k.delayListA.headInit()
	k.delayListB.headInit()
	k.delayCurrent = &k.delayListA
	k.delayOverflow = &k.delayListB
	k.pendingReady.headInit()

	if k.softwareTimers {
		k.timerList.headInit()
		k.timerUnordered.headInit()
	}

	logDebug(k.logger, "kernel", 0, NoTask, "kernel initialized")
	return k, nil
}

// stateGuardMagic is the sentinel value placed at both ends of the
// mutable kernel state when WithStateGuards(true) is set.
const stateGuardMagic uint32 = 0x4C696272 // "Libr"

// StateCheck reports whether both guard words still hold their
// sentinel value. It always returns true when WithStateGuards was not
// set.
func (k *Kernel) StateCheck() bool {
	if !k.stateGuards {
		return true
	}
	return k.guard0 == stateGuardMagic && k.guardEnd == stateGuardMagic
}

// Start transitions the Kernel to Running and runs the scheduler
// until no task is ready to run. Calling Start twice is a fatal
// assertion.
func (k *Kernel) Start() {
	assert(k.runState.TryTransition(KernelNotStarted, KernelRunning), "librertos: Start: already started")
	logDebug(k.logger, "kernel", 0, NoTask, "kernel started")
	k.SchedulerRun()
}

// schedulerLock increments the reentrant scheduler-lock depth. It
// must be perfectly paired with schedulerUnlock on every return path.
func (k *Kernel) schedulerLock() {
	k.port.Lock()
	k.schedulerLockDepth++
	k.port.Unlock()
}

// schedulerUnlock decrements the scheduler-lock depth; on the
// outermost unlock, if there is deferred work, it runs the unlock
// loop (spec.md section 4.4) inside a critical section.
func (k *Kernel) schedulerUnlock() {
	k.port.Lock()
	defer k.port.Unlock()

	assert(k.schedulerLockDepth > 0, "librertos: schedulerUnlock: not locked")

	if k.schedulerLockDepth == 1 && k.unlockHasWork {
		k.runUnlockLoop()
	}
	k.schedulerLockDepth--
}

// SchedulerLock increments the reentrant scheduler-lock depth, the
// same counter task-dispatch and the ISR-facing primitives use
// internally. Application code may call this directly to bracket its
// own critical sections, per spec.md section 6's public Kernel API
// table. Must be perfectly paired with a later SchedulerUnlock call.
func (k *Kernel) SchedulerLock() {
	k.schedulerLock()
}

// SchedulerUnlock decrements the scheduler-lock depth taken by
// SchedulerLock, running any deferred tick and wakeup work queued while
// locked once the outermost lock is released.
func (k *Kernel) SchedulerUnlock() {
	k.schedulerUnlock()
}

// runUnlockLoop implements spec.md section 4.4. Caller must hold
// k.port's lock; this method releases and reacquires it internally
// around the interrupts-enabled phases, matching the C original's
// alternating INTERRUPTS_ENABLE/DISABLE.
func (k *Kernel) runUnlockLoop() {
	for {
		k.unlockHasWork = false

		for k.delayedTicks != 0 {
			k.delayedTicks--
			k.tick++
			k.port.Unlock()
			k.processTick()
			k.port.Lock()
		}

		k.port.Unlock()
		k.drainPendingReady()
		k.port.Lock()

		if k.preemption && k.higherReady {
			k.higherReady = false
			k.port.Unlock()
			k.SchedulerRun()
			k.port.Lock()
		}

		if !k.unlockHasWork {
			break
		}
	}
}

// processTick implements spec.md section 4.4's "process-tick": on
// wraparound it swaps the current/overflow delay lists, then promotes
// every delay-list head whose wake tick has arrived.
func (k *Kernel) processTick() {
	k.port.Lock()
	if k.tick == 0 {
		k.delayCurrent, k.delayOverflow = k.delayOverflow, k.delayCurrent
	}

	for {
		first := k.delayCurrent.getFirst()
		if first == nil || first.value != k.tick {
			break
		}
		task := first.owner.(*Task)
		remove(&task.delayNode)
		remove(&task.eventNode)
		task.state = TaskReady
		k.ready[task.priority] = task
		k.raiseHigherReadyLocked(task)
	}
	k.port.Unlock()
}

// drainPendingReady implements spec.md section 4.4's
// "drain-pending-ready".
func (k *Kernel) drainPendingReady() {
	for {
		k.port.Lock()
		if k.pendingReady.isEmpty() {
			k.port.Unlock()
			return
		}
		node := k.pendingReady.getFirst()
		remove(node)
		task := node.owner.(*Task)
		remove(&task.delayNode)
		task.state = TaskReady
		k.ready[task.priority] = task
		k.raiseHigherReadyLocked(task)
		k.port.Unlock()
	}
}

// raiseHigherReadyLocked sets higherReady when preemption is enabled
// and the just-promoted task outranks the current task (or there is
// no current task). Caller must hold k.port's lock.
func (k *Kernel) raiseHigherReadyLocked(task *Task) {
	if !k.preemption {
		return
	}
	if k.currentTask == nil || task.priority > k.currentTask.priority {
		k.higherReady = true
	}
}

// Tick is the kernel's tick-interrupt entry point (spec.md section
// 4.5): call it from the platform's tick ISR. Complexity O(1); all
// expired-task promotion happens later, in the unlock loop.
func (k *Kernel) Tick() {
	k.schedulerLock()
	k.port.Lock()
	k.delayedTicks++
	k.unlockHasWork = true
	k.port.Unlock()
	k.schedulerUnlock()
}

// GetTickCount returns the current tick counter.
func (k *Kernel) GetTickCount() Tick {
	k.port.Lock()
	defer k.port.Unlock()
	return k.tick
}

// Stats returns the kernel-wide total run time and the time spent
// with no task running. totalRunTime is zero unless WithStatistics(true)
// was set; noTaskRunTime is not accumulated by the scheduler and is
// always zero.
func (k *Kernel) Stats() (totalRunTime, noTaskRunTime time.Duration) {
	k.port.Lock()
	defer k.port.Unlock()
	return k.totalRunTime, k.noTaskRunTime
}
