package main

import (
	"io"
	"os"
	"time"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/server"
)

// Pipeline is the part of cv2pdf.ConverterPool the commands use.
type Pipeline interface {
	server.Pipeline
	Close() error
}

// Compile-time interface implementation check.
var _ Pipeline = (*cv2pdf.ConverterPool)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and pipeline construction.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	NewPipeline func(size int, opts ...cv2pdf.Option) Pipeline
	LookupEnv   func(key string) (string, bool)
	Environ     func() []string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewPipeline: func(size int, opts ...cv2pdf.Option) Pipeline {
			return cv2pdf.NewConverterPool(size, opts...)
		},
		LookupEnv: os.LookupEnv,
		Environ:   os.Environ,
	}
}

// getenv returns the value of key, or "" when unset.
func (e *Environment) getenv(key string) string {
	v, _ := e.LookupEnv(key)
	return v
}
