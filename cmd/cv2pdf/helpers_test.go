package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	cv2pdf "github.com/alnah/go-cv2pdf"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake pipeline and environment
// ---------------------------------------------------------------------------

const validCV = `
template: modern
personalInfo:
  fullName: Ada Lovelace
  email: ada@example.com
skills: [Analysis, Engines]
experience:
  - company: Analytical Engine
    position: Programmer
    startDate: "1842-01"
    endDate: "1843-09"
`

const invalidCV = `
experience:
  - company: X
    startDate: last spring
`

// longCV returns a CV whose estimate spans several pages.
func longCV(entries int) string {
	var sb strings.Builder
	sb.WriteString("personalInfo:\n  fullName: Long Writer\nexperience:\n")
	for i := 0; i < entries; i++ {
		sb.WriteString("  - company: Company\n    position: Role\n")
	}
	return sb.String()
}

// fakePipeline records calls instead of driving a browser.
type fakePipeline struct {
	mu        sync.Mutex
	size      int
	inputs    []cv2pdf.Input
	exports   int
	exportErr map[string]error // keyed by Input.FileName
	measured  cv2pdf.Measurement
	closed    bool
}

func newFakePipeline() *fakePipeline {
	return &fakePipeline{
		exportErr: map[string]error{},
		measured:  cv2pdf.Measurement{Height: 2000, Pages: 2},
	}
}

func (f *fakePipeline) record(in cv2pdf.Input) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
}

func (f *fakePipeline) Plan(_ context.Context, in cv2pdf.Input) (cv2pdf.PagePlan, error) {
	f.record(in)
	order := in.Order
	if order == nil {
		order = cv2pdf.DefaultSectionOrder(in.Document)
	}
	return cv2pdf.DefaultHeuristics().Plan(in.Document, order), nil
}

func (f *fakePipeline) Preview(ctx context.Context, in cv2pdf.Input) (*cv2pdf.Composition, error) {
	plan, _ := f.Plan(ctx, in)
	return &cv2pdf.Composition{
		Count:  plan.Count,
		Frames: cv2pdf.Frames(plan),
		HTML:   "<html><body>preview of " + in.Document.PersonalInfo.FullName + "</body></html>",
	}, nil
}

func (f *fakePipeline) Export(_ context.Context, in cv2pdf.Input) (*cv2pdf.Artifact, error) {
	f.record(in)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exports++
	if err := f.exportErr[in.FileName]; err != nil {
		return nil, err
	}
	return &cv2pdf.Artifact{
		FileName: in.FileName,
		MIMEType: "application/pdf",
		Data:     []byte("%PDF-1.4 fake"),
		Pages:    1,
	}, nil
}

func (f *fakePipeline) MeasurePages(_ context.Context, in cv2pdf.Input) (cv2pdf.Measurement, error) {
	f.record(in)
	return f.measured, nil
}

func (f *fakePipeline) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePipeline) lastInput(t *testing.T) cv2pdf.Input {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.inputs) == 0 {
		t.Fatal("pipeline received no input")
	}
	return f.inputs[len(f.inputs)-1]
}

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv is an Environment backed by a fake pipeline and a fixed
// variable set.
type testEnv struct {
	*Environment
	stdout   *syncBuffer
	stderr   *syncBuffer
	pipeline *fakePipeline
}

func newTestEnv(vars map[string]string) *testEnv {
	te := &testEnv{
		stdout:   &syncBuffer{},
		stderr:   &syncBuffer{},
		pipeline: newFakePipeline(),
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewPipeline: func(size int, _ ...cv2pdf.Option) Pipeline {
			te.pipeline.size = size
			return te.pipeline
		},
		LookupEnv: func(key string) (string, bool) {
			v, ok := vars[key]
			return v, ok
		},
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			sort.Strings(out)
			return out
		},
	}
	return te
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
