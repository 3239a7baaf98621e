// Package fiber implements the cooperative execution context that lets
// an algorithm body, written as ordinary sequential code, suspend at a
// "step" call and be resumed later with its full call stack intact.
//
// A Fiber pairs a goroutine with two unbuffered channels forming a
// strict resume/yield handshake. Exactly one side of the handshake runs
// at any instant, so although two goroutines exist, execution is
// logically single-threaded: the resumer blocks until the fiber yields
// or finishes, and the fiber blocks until it is resumed.
package fiber

// Fiber is a suspendable computation. Create one with New; it does not
// start running until the first Resume.
type Fiber struct {
	resume   chan struct{}
	yield    chan struct{}
	finished bool
}

// New creates a fiber that will run entry on its first Resume. The entry
// function may call Yield any number of times; when it returns, the
// fiber is finished and further Resume calls are no-ops.
func New(entry func()) *Fiber {
	f := &Fiber{
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}
	go func() {
		<-f.resume
		entry()
		// Publish completion, then release the final Resume and every
		// Resume after it. finished is written before the close, so the
		// resumer observes it after its receive completes.
		f.finished = true
		close(f.yield)
	}()
	return f
}

// Resume transfers control to the fiber until it yields or finishes.
// Resuming a finished fiber is a no-op. Calling Resume from inside the
// fiber's own entry function is a programming error and deadlocks.
func (f *Fiber) Resume() {
	if f.finished {
		return
	}
	f.resume <- struct{}{}
	<-f.yield
}

// Yield suspends the fiber and returns control to the most recent
// Resume caller. Callable only from inside the running entry function;
// calling it with no resumer waiting is a programming error.
func (f *Fiber) Yield() {
	f.yield <- struct{}{}
	<-f.resume
}

// Finished reports whether the entry function has returned.
func (f *Fiber) Finished() bool {
	return f.finished
}
