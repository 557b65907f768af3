package export

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg string)

func (f NotifierFunc) Notify(ctx context.Context, msg string) { f(ctx, msg) }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string) {}

// WriterNotifier prints messages on their own line, for terminals.
type WriterNotifier struct {
	mu sync.Mutex
	W  io.Writer
}

func (n *WriterNotifier) Notify(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintln(n.W, msg)
}

// LogNotifier records messages as warnings.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(_ context.Context, msg string) {
	n.Logger.Warn("user notification", zap.String("message", msg))
}

// Downloader delivers a finished artifact.
type Downloader interface {
	Download(ctx context.Context, a *Artifact) error
}

// DownloaderFunc adapts a function to Downloader.
type DownloaderFunc func(ctx context.Context, a *Artifact) error

func (f DownloaderFunc) Download(ctx context.Context, a *Artifact) error { return f(ctx, a) }

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// FileDownloader writes artifacts to disk. Path wins when set; otherwise
// the artifact's FileName is placed in Dir.
type FileDownloader struct {
	Path string
	Dir  string

	// Written holds the last path written.
	Written string
}

func (d *FileDownloader) Download(ctx context.Context, a *Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := d.Path
	if path == "" {
		path = filepath.Join(d.Dir, a.FileName)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(path, a.Data, filePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	d.Written = path
	return nil
}

// HTTPDownloader streams artifacts as attachments.
type HTTPDownloader struct {
	W http.ResponseWriter
}

func (d HTTPDownloader) Download(_ context.Context, a *Artifact) error {
	h := d.W.Header()
	h.Set("Content-Type", a.MIMEType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.FileName}))
	h.Set("Content-Length", strconv.Itoa(len(a.Data)))
	h.Set("X-Page-Count", strconv.Itoa(a.Pages))
	d.W.WriteHeader(http.StatusOK)
	_, err := d.W.Write(a.Data)
	return err
}
