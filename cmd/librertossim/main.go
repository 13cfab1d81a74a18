// Command librertossim is a small simulator/demo binary, numbered in
// the same spirit as go-eventloop's examples/NN_* convention: four
// scenarios below follow spec.md section 8's concrete walkthroughs and
// the fifth demonstrates a no-period timer, each run to completion
// against a goroutine-based librertos.MutexPort so its behavior can be
// observed outside of go test.
//
// Run with: go run ./cmd/librertossim
package main

import (
	"fmt"

	librertos "github.com/djboni/librertos"
)

func main() {
	scenarios := []struct {
		name string
		run  func()
	}{
		{"two-task fairness", twoTaskFairness},
		{"preemption", preemption},
		{"cooperative mode", cooperativeMode},
		{"mutex priority inheritance", mutexPriorityInheritance},
		{"no-period timer", noPeriodTimer},
	}

	for _, s := range scenarios {
		fmt.Printf("=== %s ===\n", s.name)
		s.run()
		fmt.Println()
	}
}

func newKernel(opts ...librertos.Option) *librertos.Kernel {
	k, err := librertos.New(append([]librertos.Option{librertos.WithPort(librertos.NewMutexPort())}, opts...)...)
	if err != nil {
		panic(err)
	}
	return k
}

// twoTaskFairness mirrors TestScenarioTwoTaskFairness: two tasks at
// distinct priorities hand control back and forth by explicit
// resume/suspend, reproducing equal-priority round-robin fairness
// within the kernel's one-task-per-priority ready table.
func twoTaskFairness() {
	k := newKernel(librertos.WithMaxPriority(2))

	var taskA, taskB librertos.Task
	const repeat = 2
	countB := 0

	k.TaskCreate(&taskA, 1, func(librertos.TaskParameter) {
		fmt.Println("task A running")
		k.TaskResume(&taskB)
		k.TaskSuspend(&taskA)
	}, nil)
	k.TaskCreate(&taskB, 0, func(librertos.TaskParameter) {
		fmt.Println("task B running")
		countB++
		if countB < repeat {
			k.TaskResume(&taskA)
		}
		k.TaskSuspend(&taskB)
	}, nil)
	k.TaskSuspend(&taskB)

	k.SchedulerRun()
}

// preemption mirrors TestScenarioPreemption: the lower-priority task
// resumes the higher-priority one mid-body, and preemptive mode
// dispatches it immediately instead of waiting for low to yield.
func preemption() {
	k := newKernel(librertos.WithMaxPriority(2), librertos.WithPreemption(true))

	var low, high librertos.Task
	k.TaskCreate(&high, 1, func(librertos.TaskParameter) {
		fmt.Println("high running (preempted low)")
		k.TaskSuspend(&high)
	}, nil)
	k.TaskSuspend(&high)
	k.TaskCreate(&low, 0, func(librertos.TaskParameter) {
		fmt.Println("low: before resuming high")
		k.TaskResume(&high)
		fmt.Println("low: after high ran")
		k.TaskSuspend(&low)
	}, nil)

	k.SchedulerRun()
}

// cooperativeMode mirrors TestScenarioCooperativeMode: same bodies as
// preemption, but with preemption disabled, so low's body completes
// uninterrupted before high becomes eligible.
func cooperativeMode() {
	k := newKernel(librertos.WithMaxPriority(2), librertos.WithPreemption(false))

	var low, high librertos.Task
	k.TaskCreate(&high, 1, func(librertos.TaskParameter) {
		fmt.Println("high running (after low yielded)")
		k.TaskSuspend(&high)
	}, nil)
	k.TaskSuspend(&high)
	k.TaskCreate(&low, 0, func(librertos.TaskParameter) {
		fmt.Println("low: before resuming high")
		k.TaskResume(&high)
		fmt.Println("low: after resume call returns (high not yet run)")
		k.TaskSuspend(&low)
	}, nil)

	k.SchedulerRun()
}

// mutexPriorityInheritance mirrors TestMutexSuspendAppliesPriorityInheritance:
// a low-priority owner blocks a high-priority waiter, is boosted to
// the waiter's priority for the duration of the critical section, and
// is restored once it unlocks.
func mutexPriorityInheritance() {
	k := newKernel(librertos.WithMaxPriority(3), librertos.WithPreemption(true))

	var mtx librertos.Mutex
	k.MutexInit(&mtx)

	// low runs first, locks the mutex, then resumes high: with
	// preemption enabled that resume immediately preempts low and
	// runs high's body nested inside this one, so by the time low's
	// own body continues past the TaskResume call, high has already
	// blocked on the mutex and boosted low's priority.
	var low, high librertos.Task
	k.TaskCreate(&low, 0, func(librertos.TaskParameter) {
		k.MutexLock(&mtx)
		fmt.Println("low locked mutex")
		k.TaskResume(&high)
		fmt.Printf("low about to unlock, priority now %d\n", low.Priority())
		k.MutexUnlock(&mtx)
		k.TaskSuspend(&low)
	}, nil)
	k.TaskCreate(&high, 2, func(librertos.TaskParameter) {
		if k.MutexLockPend(&mtx, librertos.MaxDelay) {
			fmt.Println("high acquired mutex")
			k.MutexUnlock(&mtx)
			k.TaskSuspend(&high)
			return
		}
		fmt.Println("high attempting to lock mutex, will block")
	}, nil)
	k.TaskSuspend(&high)

	k.SchedulerRun()
}

// noPeriodTimer demonstrates a TimerNoPeriod timer: it fires once on
// the timer task's next dispatch without ever entering the ordered
// wake-tick list.
func noPeriodTimer() {
	k := newKernel(librertos.WithMaxPriority(2), librertos.WithSoftwareTimers(true))
	k.StartTimerTask(0)

	var timer librertos.Timer
	k.TimerInit(&timer, librertos.TimerNoPeriod, 0, func(*librertos.Timer) {
		fmt.Println("no-period timer fired")
	})
	k.TimerStart(&timer)

	k.SchedulerRun()
}
