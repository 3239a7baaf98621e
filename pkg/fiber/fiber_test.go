package fiber

import "testing"

func TestRoundTrip(t *testing.T) {
	var f *Fiber
	steps := 0
	f = New(func() {
		steps++
		f.Yield()
	})

	f.Resume()
	if steps != 1 {
		t.Fatalf("expected entry to run to its yield, steps = %d", steps)
	}
	if f.Finished() {
		t.Fatal("fiber reported finished while suspended at yield")
	}

	f.Resume()
	if !f.Finished() {
		t.Fatal("fiber not finished after entry returned")
	}

	// Resuming a finished fiber is a no-op and must return immediately.
	f.Resume()
	f.Resume()
}

func TestNeverStartsBeforeResume(t *testing.T) {
	ran := false
	f := New(func() { ran = true })
	if ran {
		t.Fatal("entry ran before first Resume")
	}
	f.Resume()
	if !ran {
		t.Fatal("entry did not run on first Resume")
	}
	if !f.Finished() {
		t.Fatal("fiber with yield-free entry should finish on first Resume")
	}
}

func TestManyYields(t *testing.T) {
	var f *Fiber
	count := 0
	f = New(func() {
		for i := 0; i < 100; i++ {
			count++
			f.Yield()
		}
	})
	for i := 1; i <= 100; i++ {
		f.Resume()
		if count != i {
			t.Fatalf("after resume %d, count = %d", i, count)
		}
		if f.Finished() {
			t.Fatalf("finished early at resume %d", i)
		}
	}
	f.Resume()
	if !f.Finished() {
		t.Fatal("not finished after final resume")
	}
}

func TestDeepRecursionSurvivesYields(t *testing.T) {
	var f *Fiber
	depthSeen := 0
	var descend func(d int)
	descend = func(d int) {
		if d > depthSeen {
			depthSeen = d
		}
		if d == 50 {
			f.Yield()
			return
		}
		descend(d + 1)
	}
	f = New(func() { descend(0) })

	f.Resume() // suspended at depth 50
	if f.Finished() {
		t.Fatal("finished while suspended deep in recursion")
	}
	f.Resume() // unwinds and returns
	if !f.Finished() || depthSeen != 50 {
		t.Fatalf("finished=%v depthSeen=%d", f.Finished(), depthSeen)
	}
}
