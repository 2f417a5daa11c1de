package mainthread

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type countedTask struct {
	runs     *atomic.Int32
	releases *atomic.Int32
}

func (c countedTask) Run()     { c.runs.Add(1) }
func (c countedTask) Release() { c.releases.Add(1) }

func TestDrainRunsInPostOrder(t *testing.T) {
	q := New()
	var got []int
	for i := 0; i < 5; i++ {
		if err := q.PostFunc(func() { got = append(got, i) }); err != nil {
			t.Fatalf("PostFunc() failed: %v", err)
		}
	}

	if n := q.Drain(); n != 5 {
		t.Errorf("Drain() = %d, expected 5", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("order = %v, expected ascending", got)
		}
	}
	if n := q.Drain(); n != 0 {
		t.Errorf("second Drain() = %d, expected 0", n)
	}
}

func TestConcurrentProducersRunOnce(t *testing.T) {
	q := New()
	var runs, releases atomic.Int32

	const producers, perProducer = 8, 200
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Post(countedTask{runs: &runs, releases: &releases}); err != nil {
					t.Errorf("Post() failed: %v", err)
					return
				}
			}
		}()
	}

	// Drain concurrently with the producers.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	total := 0
	for {
		select {
		case <-done:
			total += q.Drain()
			if total != producers*perProducer {
				t.Errorf("drained %d tasks, expected %d", total, producers*perProducer)
			}
			if runs.Load() != producers*perProducer {
				t.Errorf("runs = %d, expected %d", runs.Load(), producers*perProducer)
			}
			if releases.Load() != runs.Load() {
				t.Errorf("releases = %d, expected one per run (%d)", releases.Load(), runs.Load())
			}
			return
		case <-q.Ready():
			total += q.Drain()
		}
	}
}

func TestPostDuringDrainWaitsForNextDrain(t *testing.T) {
	q := New()
	ran := 0
	q.PostFunc(func() {
		q.PostFunc(func() { ran++ })
	})

	if n := q.Drain(); n != 1 {
		t.Fatalf("Drain() = %d, expected 1", n)
	}
	if ran != 0 {
		t.Error("task posted during Drain should not run in the same Drain")
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", q.Len())
	}
	q.Drain()
	if ran != 1 {
		t.Errorf("ran = %d, expected 1", ran)
	}
}

func TestCloseReleasesPending(t *testing.T) {
	q := New()
	var runs, releases atomic.Int32
	q.Post(countedTask{runs: &runs, releases: &releases})
	q.Post(countedTask{runs: &runs, releases: &releases})

	if n := q.Close(); n != 2 {
		t.Errorf("Close() = %d, expected 2", n)
	}
	if runs.Load() != 0 || releases.Load() != 2 {
		t.Errorf("runs = %d, releases = %d, expected 0 and 2", runs.Load(), releases.Load())
	}
	if err := q.PostFunc(func() {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Post after Close = %v, expected ErrClosed", err)
	}
}

func TestPostNil(t *testing.T) {
	q := New()
	if err := q.Post(nil); err == nil {
		t.Error("Post(nil) should fail")
	}
	if err := q.PostFunc(nil); err == nil {
		t.Error("PostFunc(nil) should fail")
	}
}
