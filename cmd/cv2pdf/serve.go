package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/alnah/go-cv2pdf/internal/export"
	"github.com/alnah/go-cv2pdf/internal/server"
)

// defaultEnvFile is read by serve when --env-file is not given.
const defaultEnvFile = ".env"

// ErrReadEnvFile is returned when an explicit --env-file cannot be read.
var ErrReadEnvFile = errors.New("failed to read env file")

// runServe starts the HTTP API and blocks until ctx is cancelled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, _, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	env, err = withDotEnv(env, flags.envFile)
	if err != nil {
		return err
	}

	s, err := loadSettings(&flags.common, &flags.pipeline, env)
	if err != nil {
		return err
	}
	mergeServeFlags(flags, s)
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(s.cfg.Log.Level, s.cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	pool := env.NewPipeline(s.workers, s.converterOptions(logger, export.LogNotifier{Logger: logger})...)
	defer func() { _ = pool.Close() }()

	logger.Info("starting server",
		zap.String("version", Version),
		zap.Int("workers", s.workers),
		zap.String("engine", s.cfg.Export.Engine),
	)
	srv := server.New(pool, server.Config{
		Addr:           s.cfg.Server.Addr,
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		MaxBodyBytes:   s.cfg.Server.MaxBodyBytes,
	}, logger)
	return srv.Run(ctx)
}

// mergeServeFlags applies the server flags. Unset flags keep config values.
func mergeServeFlags(f *serveFlags, s *settings) {
	if f.addr != "" {
		s.cfg.Server.Addr = f.addr
	}
	if len(f.origins) > 0 {
		s.cfg.Server.AllowedOrigins = f.origins
	}
	if f.logLevel != "" {
		s.cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		s.cfg.Log.Format = f.logFormat
	}
	if f.common.verbose {
		s.cfg.Log.Level = "debug"
	}
}

// withDotEnv layers a .env file under the environment: variables already
// set win. A missing default file is not an error; a missing explicit one is.
func withDotEnv(env *Environment, path string) (*Environment, error) {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return env, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrReadEnvFile, err)
	}

	layered := *env
	lookup := env.LookupEnv
	layered.LookupEnv = func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}
	environ := env.Environ
	layered.Environ = func() []string {
		out := environ()
		for k, v := range vars {
			if _, ok := lookup(k); !ok {
				out = append(out, k+"="+v)
			}
		}
		return out
	}
	return &layered, nil
}
