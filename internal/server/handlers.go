package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/export"
)

type templateInfo struct {
	ID      string `json:"id"`
	Default bool   `json:"default"`
}

type pagesResponse struct {
	Estimate cv2pdf.PagePlan `json:"estimate"`
	Measured *measuredPages  `json:"measured,omitempty"`
	Frames   []cv2pdf.Frame  `json:"frames"`
}

type measuredPages struct {
	Height float64 `json:"height"`
	Pages  int     `json:"pages"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "cv2pdf"})
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	ids := cv2pdf.Templates()
	out := make([]templateInfo, len(ids))
	for i, id := range ids {
		out[i] = templateInfo{ID: id.String(), Default: id == cv2pdf.DefaultTemplate}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, cv2pdf.Schema())
}

// handlePreview returns the paginated preview document, or its frame list
// when the client accepts JSON.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	in, _, ok := s.readInput(w, r)
	if !ok {
		return
	}
	comp, err := s.pipeline.Preview(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("X-Page-Count", strconv.Itoa(comp.Count))
	if r.Header.Get("Accept") == "application/json" {
		writeJSON(w, http.StatusOK, comp)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, comp.HTML)
}

// handlePages reports the estimated page plan; with ?measure=true it also
// measures the rendered document in the browser.
func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	in, _, ok := s.readInput(w, r)
	if !ok {
		return
	}
	plan, err := s.pipeline.Plan(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := pagesResponse{Estimate: plan, Frames: cv2pdf.Frames(plan)}

	if measure, _ := strconv.ParseBool(r.URL.Query().Get("measure")); measure {
		m, err := s.pipeline.MeasurePages(r.Context(), in)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Measured = &measuredPages{Height: m.Height, Pages: m.Pages}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleExport streams the PDF as an attachment. Identical concurrent
// requests share one export.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	in, body, ok := s.readInput(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	in.FileName = q.Get("filename")
	in.Title = q.Get("title")

	key := exportKey(body, in.Selection.Template.String(), in.FileName, in.Title)
	v, err, shared := s.exports.Do(key, func() (any, error) {
		// Detached from the first caller so its disconnect does not fail
		// the callers sharing the result.
		return s.pipeline.Export(context.WithoutCancel(r.Context()), in)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if shared {
		s.logger.Debug("export shared", zap.String("key", key[:12]))
	}

	art, _ := v.(*cv2pdf.Artifact)
	if err := (export.HTTPDownloader{W: w}).Download(r.Context(), art); err != nil {
		s.logger.Warn("export download interrupted", zap.Error(err))
	}
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	report, err := cv2pdf.Lint(body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":  report.Valid(),
		"issues": nonNil(report.Issues),
	})
}

// readInput reads and decodes the request's CV file. The template can be
// overridden with ?template=.
func (s *Server) readInput(w http.ResponseWriter, r *http.Request) (cv2pdf.Input, []byte, bool) {
	body, ok := s.readBody(w, r)
	if !ok {
		return cv2pdf.Input{}, nil, false
	}
	f, err := cv2pdf.ParseCV(body)
	if err != nil {
		s.fail(w, r, err)
		return cv2pdf.Input{}, nil, false
	}
	in := cv2pdf.InputFrom(f)
	if name := r.URL.Query().Get("template"); name != "" {
		id, known := cv2pdf.ParseTemplateID(name)
		if !known {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown template %q", name))
			return cv2pdf.Input{}, nil, false
		}
		in.Selection.Template = id
	}
	return in, body, true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "reading request body")
		return nil, false
	}
	return body, true
}

// fail maps err to a status and writes the JSON error. Export failures
// carry the user-facing failure message, not internals.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch {
	case errors.Is(err, cv2pdf.ErrExportFailed):
		msg = cv2pdf.FailureMessage
	case status >= http.StatusInternalServerError:
		msg = http.StatusText(status)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	writeError(w, status, msg)
}

// exportKey identifies an export by the CV body and every query override
// that changes the artifact.
func exportKey(body []byte, overrides ...string) string {
	h := sha256.New()
	h.Write(body)
	for _, o := range overrides {
		h.Write([]byte{0})
		h.Write([]byte(o))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
