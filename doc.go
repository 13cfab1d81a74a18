// Package librertos provides a portable, single-stack cooperative/
// preemptive real-time kernel for deeply embedded systems, together
// with a family of blocking synchronization primitives whose wait
// operations integrate with the scheduler.
//
// # Architecture
//
// The kernel is built around a [Kernel] core that multiplexes a fixed
// number of priority-ordered [Task] values onto a single logical
// stack. A task is a function that runs to its next voluntary yield —
// it returns, or it calls one of the suspension points
// ([Kernel.TaskDelay], [Kernel.TaskSuspend], or a primitive's Pend/
// Suspend method) — there is no implicit suspension.
//
// Synchronization primitives ([Semaphore], [Mutex], [Queue], [Fifo],
// [Timer]) are thin façades over a shared, unexported event mechanism
// that orders waiters by descending priority and integrates with the
// scheduler's deferred-work machinery so that an interrupt-context
// caller never has to run the scheduler itself.
//
// # Platform Support
//
// Interrupt and critical-section semantics are abstracted behind the
// [Port] interface. [NewMutexPort] supplies a goroutine-safe default
// in which INTERRUPTS_DISABLE/ENABLE and CRITICAL_ENTER/EXIT are the
// same lock, mirroring the reference Linux port; unlike that port's
// lock it is not reentrant, so kernel code never takes it twice. Production
// ports targeting a real interrupt controller implement [Port]
// directly.
//
// # Thread Safety
//
// The kernel's own state is protected by the scheduler lock and the
// Port's critical section; see section 5 of the design notes bundled
// with this module for the full reentrancy table. In short:
//   - [Kernel.Tick] is safe to call from an interrupt context only.
//   - [Kernel.TaskResume] and every primitive's non-suspending method
//     (Give/Unlock/Write/Read) are safe to call from any context.
//   - [Kernel.TaskDelay], [Kernel.TaskSuspend] with a nil task, and
//     every primitive's Pend/Suspend method require a currently running
//     task; calling them with no current task is a fatal assertion.
//
// # Execution Model
//
// [Kernel.SchedulerRun] repeatedly searches the ready table from the
// highest priority down to (but not including) the current task's
// priority, dispatches the first ready task it finds, and repeats
// until no eligible task remains. Preemption, when enabled, re-enters
// this search as soon as a higher-priority task becomes ready.
//
// # Usage
//
//	k, err := librertos.New(librertos.WithMaxPriority(2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var lo, hi librertos.Task
//	k.TaskCreate(&lo, 0, func(librertos.TaskParameter) {
//	    fmt.Println("low priority")
//	}, nil)
//	k.TaskCreate(&hi, 1, func(librertos.TaskParameter) {
//	    fmt.Println("high priority")
//	}, nil)
//
//	k.SchedulerRun()
//
// # Error Types
//
// The package provides a small error-type family for the fatal and
// timeout channels described in the design notes:
//   - [FatalError]: programming errors (bad priority, duplicate
//     priority, unlocking a mutex not held) routed through [Fatal].
//   - [RangeError]: configuration values [New] rejects (MaxPriority
//     below 1, PreemptLimit not below MaxPriority).
//   - [TimeoutError]: a wait whose context ended before the event
//     fired. No kernel method takes a context or returns it.
//
// Recoverable outcomes — take-when-empty, give-when-full, wait
// timeout — are not errors; they are the boolean-shaped ok return
// every primitive method documents.
package librertos
