package librertos

import (
	"sync/atomic"
)

// TaskState is the task lifecycle state described in spec section 4.13:
//
//	           create
//	NotInit ────────────▶ Ready
//	Ready ── delay(n>0) ▶ Blocked
//	Ready ── suspend ───▶ Suspended
//	Ready ── pend(ev,t) ▶ Suspended (t == MaxDelay)
//	                    ▶ Blocked   (0 < t < MaxDelay)
//	Blocked ── tick ▶ Ready (directly, in process-tick)
//	Blocked ── resume/event ▶ Ready (via pending-ready)
//	Suspended ─ resume/event ▶ Ready (via pending-ready)
//
// There is no terminal state; tasks are long-lived. Every transition
// happens under the kernel's scheduler lock, so TaskState itself is a
// plain value, not an atomic one — see KernelState below for the one
// state machine in this package that genuinely is accessed without a
// lock held.
type TaskState uint8

const (
	// TaskNotInitialized is the zero value: the task record has been
	// declared but TaskCreate has not run.
	TaskNotInitialized TaskState = iota
	// TaskReady means ready[task.Priority] == task.
	TaskReady
	// TaskBlocked means the task is linked into a delay list and/or an
	// event list, waiting for a tick or an event to fire.
	TaskBlocked
	// TaskSuspended means the task was suspended explicitly, or is
	// pending with MaxDelay; TaskResume moves it back to ready, and so
	// does the event a MaxDelay pender is waiting on.
	TaskSuspended
)

// String returns a human-readable representation of the state.
func (s TaskState) String() string {
	switch s {
	case TaskNotInitialized:
		return "NotInitialized"
	case TaskReady:
		return "Ready"
	case TaskBlocked:
		return "Blocked"
	case TaskSuspended:
		return "Suspended"
	default:
		return "Unknown"
	}
}

// KernelState is the lock-free run-state machine gating Kernel.Start
// (Kernel.Tick does not consult it), grounded on the teacher's FastState pattern:
// cache-line padded, pure atomic CAS, no mutex, no transition
// validation beyond the CAS itself.
type KernelState uint64

const (
	// KernelNotStarted is the state before Start is called.
	KernelNotStarted KernelState = iota
	// KernelRunning is the state after Start succeeds.
	KernelRunning
	// KernelStopped is a terminal state. No Kernel method transitions
	// into it.
	KernelStopped
)

func (s KernelState) String() string {
	switch s {
	case KernelNotStarted:
		return "NotStarted"
	case KernelRunning:
		return "Running"
	case KernelStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// fastState is a lock-free state machine with cache-line padding,
// used for Kernel's coarse run state so Start can check it without
// taking the scheduler lock.
type fastState struct { // betteralign:ignore
	_ [64]byte      // cache line padding (before value)
	v atomic.Uint64 // state value
	_ [56]byte      // pad to complete cache line (64 - 8 = 56)
}

func newFastState() *fastState {
	s := &fastState{}
	s.v.Store(uint64(KernelNotStarted))
	return s
}

func (s *fastState) Load() KernelState {
	return KernelState(s.v.Load())
}

func (s *fastState) Store(state KernelState) {
	s.v.Store(uint64(state))
}

func (s *fastState) TryTransition(from, to KernelState) bool {
	return s.v.CompareAndSwap(uint64(from), uint64(to))
}
