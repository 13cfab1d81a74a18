package librertos

import (
	"context"
	"sync"
	"time"
)

// Port is the platform collaborator described in spec.md section 6:
// it supplies the interrupt-disable/enable and critical-section
// primitives the kernel builds everything else on top of, a
// monotonic free-running counter for statistics, and an optional idle
// hook.
//
// Lock/Unlock serve both INTERRUPTS_DISABLE/ENABLE and
// CRITICAL_ENTER/EXIT from the original design: the reference Linux
// port ties both pairs to the same recursive pthread mutex, and this
// package follows suit by routing every interrupt-disable and every
// critical-section call through the same Port. See DESIGN.md for why
// that collapses to one non-reentrant lock here rather than a
// borrowed recursive-mutex package: the kernel's own call sites never
// invoke Lock while already holding it — the scheduler-lock depth
// counter (section 4.2) is the thing that nests, and it is itself
// protected by one outer Lock/Unlock pair per public entry point.
type Port interface {
	// Lock enters the critical section / disables interrupts. Must
	// not be called by a goroutine that already holds it.
	Lock()
	// Unlock leaves the critical section / re-enables interrupts.
	Unlock()
	// SystemRuntime returns a monotonic free-running duration, used
	// only when the Statistics option is enabled.
	SystemRuntime() time.Duration
	// IdleWait is the idle hook for when no task and no timer is
	// ready to run; the kernel's scheduler does not call it itself.
	// The default MutexPort implementation returns immediately; a
	// production port can block on ctx or a wakeup channel instead.
	IdleWait(ctx context.Context)
}

// MutexPort is the default Port, a goroutine-safe stand-in for a real
// interrupt controller, grounded on
// original_source/examples/linux/librertos_port.c.
type MutexPort struct {
	mu    sync.Mutex
	start time.Time
}

// NewMutexPort returns a ready-to-use MutexPort.
func NewMutexPort() *MutexPort {
	return &MutexPort{start: time.Now()}
}

// Lock implements Port.
func (p *MutexPort) Lock() { p.mu.Lock() }

// Unlock implements Port.
func (p *MutexPort) Unlock() { p.mu.Unlock() }

// SystemRuntime implements Port.
func (p *MutexPort) SystemRuntime() time.Duration {
	return time.Since(p.start)
}

// IdleWait implements Port; the default has no hardware idle
// instruction to wait on, so it simply returns, letting the caller's
// own loop decide whether to spin or sleep.
func (p *MutexPort) IdleWait(ctx context.Context) {}

// fatalHook is the platform assertion hook (spec.md section 6):
// "assert(expr, msg): halt on failure". It is package-level because,
// like the global logger, a fatal condition halts the whole process
// regardless of which Kernel raised it.
var fatalHook func(error) = defaultFatal

func defaultFatal(err error) {
	panic(err)
}

// SetFatalHook overrides how Fatal reports a programming error.
// Tests typically install a hook that records the error instead of
// panicking.
func SetFatalHook(hook func(error)) {
	if hook == nil {
		hook = defaultFatal
	}
	fatalHook = hook
}

// Fatal reports a programming error described in spec.md section 7:
// priority out of range, unlocking a mutex not held, and similar
// conditions the kernel cannot recover from. The default hook panics.
func Fatal(err error) {
	fatalHook(err)
}

func assert(cond bool, message string) {
	if !cond {
		Fatal(newFatal(message))
	}
}
