package librertos

// Priority is a small signed integer in [0, MaxPriority). NoTask is
// strictly less than any valid priority and represents "no current
// task" for the purposes of the real scheduler's search.
type Priority int

// NoTask is the sentinel priority meaning "no current task".
const NoTask Priority = -1

// Tick is the kernel's free-running time unit; it wraps. DiffTick is
// its signed counterpart, used only to test "is this tick in the
// past" around a wraparound boundary.
type Tick uint32

// DiffTick is the signed counterpart of Tick.
type DiffTick int32

// MaxDelay requests an unbounded wait: the caller is suspended rather
// than delayed, and only an explicit TaskResume or primitive event
// wakes it.
const MaxDelay Tick = ^Tick(0)

// TaskParameter is the opaque argument passed to a TaskFunction.
type TaskParameter any

// TaskFunction is a task's entry point, invoked by the scheduler each
// time the task is dispatched. It runs to its next voluntary yield —
// returning, or calling a suspension point.
type TaskFunction func(TaskParameter)
