package layout

// Notes:
// - Timing: tests use a short debounce and wait on channels with generous
//   timeouts; they assert ordering and counts, never exact durations.

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alnah/go-cv2pdf/internal/model"
)

const testDebounce = 50 * time.Millisecond

func TestReplanner_DebouncesBursts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	changed := make(chan PagePlan, 4)
	r := NewReplanner(DefaultHeuristics(), testDebounce, func(p PagePlan) {
		calls.Add(1)
		changed <- p
	})
	defer r.Stop()

	order := model.SectionOrder{"experience"}
	for i := 1; i <= 30; i++ {
		r.Update(docWith(i, 0, 0, 0), order)
	}

	select {
	case p := <-changed:
		want := DefaultHeuristics().Plan(docWith(30, 0, 0, 0), order)
		if p.Count != want.Count {
			t.Errorf("Count = %d, want %d (last update wins)", p.Count, want.Count)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no plan after burst")
	}

	time.Sleep(5 * testDebounce)
	if n := calls.Load(); n != 1 {
		t.Errorf("onChange called %d times, want 1", n)
	}
}

func TestReplanner_NotifiesOnlyOnCountChange(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var counts []int
	r := NewReplanner(DefaultHeuristics(), testDebounce, func(p PagePlan) {
		mu.Lock()
		counts = append(counts, p.Count)
		mu.Unlock()
	})
	defer r.Stop()

	order := model.SectionOrder{"experience"}
	steps := []int{1, 2, 3, 20, 21, 1}
	for _, n := range steps {
		r.Update(docWith(n, 0, 0, 0), order)
		r.Flush()
	}

	mu.Lock()
	defer mu.Unlock()
	// 1, 2, 3 experiences fit one page; 20 and 21 need three; back to one.
	want := []int{1, 3, 1}
	if len(counts) != len(want) {
		t.Fatalf("notifications = %v, want %v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("notifications = %v, want %v", counts, want)
			break
		}
	}
}

func TestReplanner_StopCancelsPending(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	r := NewReplanner(DefaultHeuristics(), testDebounce, func(PagePlan) { calls.Add(1) })

	r.Update(docWith(5, 0, 0, 0), nil)
	r.Stop()
	r.Update(docWith(6, 0, 0, 0), nil)

	time.Sleep(5 * testDebounce)
	if n := calls.Load(); n != 0 {
		t.Errorf("onChange called %d times after Stop", n)
	}
	if got := r.Current(); got.Count != 0 {
		t.Errorf("Current() = %+v, want zero plan", got)
	}
}

func TestReplanner_FlushReturnsPlan(t *testing.T) {
	t.Parallel()

	r := NewReplanner(DefaultHeuristics(), time.Hour, nil)
	defer r.Stop()

	r.Update(docWith(6, 0, 0, 0), model.SectionOrder{"personalInfo", "experience", "skills"})
	if got := r.Flush(); got.Count != 2 {
		t.Errorf("Flush().Count = %d, want 2", got.Count)
	}
}

func TestNewReplanner_DefaultDelay(t *testing.T) {
	t.Parallel()

	if r := NewReplanner(DefaultHeuristics(), 0, nil); r.delay != DefaultDebounce {
		t.Errorf("delay = %v, want %v", r.delay, DefaultDebounce)
	}
}
