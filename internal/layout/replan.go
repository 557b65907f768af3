package layout

import (
	"sync"
	"time"

	"github.com/alnah/go-cv2pdf/internal/model"
)

// DefaultDebounce batches bursts of edits before a plan is recomputed.
const DefaultDebounce = 100 * time.Millisecond

// Replanner recomputes a page plan after edits settle and reports page count
// changes. Safe for concurrent use.
type Replanner struct {
	heuristics Heuristics
	delay      time.Duration
	onChange   func(PagePlan)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	doc     *model.Document
	order   model.SectionOrder
	current PagePlan
	stopped bool
}

// NewReplanner creates a Replanner. onChange runs on a timer goroutine, only
// when the page count differs from the last one reported; it may be nil.
// A non-positive delay uses DefaultDebounce.
func NewReplanner(h Heuristics, delay time.Duration, onChange func(PagePlan)) *Replanner {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Replanner{heuristics: h, delay: delay, onChange: onChange}
}

// Update schedules a recomputation for doc and order, cancelling any pending
// one. The caller must not mutate doc until the next Update.
func (r *Replanner) Update(doc *model.Document, order model.SectionOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	r.doc, r.order = doc, order
	r.gen++
	gen := r.gen
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, func() { r.run(gen) })
}

// Flush recomputes immediately, cancelling any pending run, and returns the plan.
func (r *Replanner) Flush() PagePlan {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	r.run(gen)
	return r.Current()
}

// Current returns the last computed plan (zero before the first run).
func (r *Replanner) Current() PagePlan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Stop cancels any pending run. Later Updates are ignored.
func (r *Replanner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
	}
}

func (r *Replanner) run(gen uint64) {
	r.mu.Lock()
	if r.stopped || gen != r.gen {
		r.mu.Unlock()
		return
	}
	plan := r.heuristics.Plan(r.doc, r.order)
	changed := plan.Count != r.current.Count
	r.current = plan
	r.mu.Unlock()

	if changed && r.onChange != nil {
		r.onChange(plan)
	}
}
