package compose

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-cv2pdf/internal/layout"
	"github.com/alnah/go-cv2pdf/internal/model"
	"github.com/alnah/go-cv2pdf/internal/render"
)

func testPage(t *testing.T, doc *model.Document) *render.Page {
	t.Helper()

	n, err := render.New(nil)
	if err != nil {
		t.Fatalf("render.New() error = %v", err)
	}
	sel := model.TemplateSelection{Template: model.TemplateModern}
	fragments, err := n.Normalize(doc, sel.Template, model.DefaultSectionOrder(doc))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	page, err := n.Assemble(sel, fragments, "Preview", "")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	return page
}

// ---------------------------------------------------------------------------
// TestFrames - One window per planned page
// ---------------------------------------------------------------------------

func TestFrames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		plan layout.PagePlan
		want []Frame
	}{
		{name: "zero plan still has one frame", plan: layout.PagePlan{}, want: []Frame{{0, 1, 0}}},
		{name: "single page", plan: layout.NewPagePlan(500), want: []Frame{{0, 1, 0}}},
		{name: "three pages", plan: layout.NewPagePlan(3000), want: []Frame{{0, 1, 0}, {1, 2, 1123}, {2, 3, 2246}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Frames(tt.plan)
			if len(got) != len(tt.want) {
				t.Fatalf("Frames() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("frame %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCompose - Frame markup and continuity
// ---------------------------------------------------------------------------

func TestCompose(t *testing.T) {
	t.Parallel()

	page := testPage(t, &model.Document{PersonalInfo: model.PersonalInfo{FullName: "Ada Lovelace"}})
	plan := layout.NewPagePlan(2500)

	comp, err := New(nil).Compose(plan, page)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if comp.Count != 3 || len(comp.Frames) != 3 {
		t.Fatalf("Count = %d, frames = %d, want 3", comp.Count, len(comp.Frames))
	}
	if got := strings.Count(comp.HTML, `class="cv-page"`); got != 3 {
		t.Errorf("rendered %d frames, want 3", got)
	}
	if got := strings.Count(comp.HTML, "Ada Lovelace"); got < 3 {
		t.Errorf("every frame should hold the full document, name seen %d times", got)
	}
	for _, off := range []string{"translateY(-0px)", "translateY(-1123px)", "translateY(-2246px)"} {
		if !strings.Contains(comp.HTML, off) {
			t.Errorf("missing offset %q", off)
		}
	}
	if !strings.Contains(comp.HTML, "width: 794px; height: 1123px") {
		t.Error("frames should be fixed A4 size")
	}
	if !strings.Contains(comp.HTML, `data-page-count="3"`) {
		t.Error("page count not exposed on body")
	}
}

func TestCompose_NilPage(t *testing.T) {
	t.Parallel()

	if _, err := New(nil).Compose(layout.NewPagePlan(0), nil); !errors.Is(err, ErrNilPage) {
		t.Errorf("Compose(nil) error = %v, want ErrNilPage", err)
	}
}

// ---------------------------------------------------------------------------
// TestCompose_PagesChanged - Notification only on count change
// ---------------------------------------------------------------------------

func TestCompose_PagesChanged(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var got []int
	c := New(nil, WithOnPagesChanged(func(n int) {
		mu.Lock()
		got = append(got, n)
		mu.Unlock()
	}))
	page := testPage(t, &model.Document{})

	for _, height := range []int{100, 900, 1500, 2000, 100} {
		if _, err := c.Compose(layout.NewPagePlan(height), page); err != nil {
			t.Fatalf("Compose() error = %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	want := []int{1, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", got, want)
		}
	}
}
