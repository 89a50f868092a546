package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/finman-dev/finman/internal/codes"
	"github.com/finman-dev/finman/internal/config"
	"github.com/finman-dev/finman/internal/store"
)

type globalOptions struct {
	repo    string
	verbose bool
}

// project is a loaded project directory.
type project struct {
	root    string
	cfg     *config.Config
	logger  *log.Logger
	verbose bool
}

// loadProject reads finman.yaml and .env from the project directory.
func loadProject(opts *globalOptions, stderr io.Writer) (*project, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s is not a finman project (run finman init)", root)
		}
		return nil, err
	}
	if err := config.LoadEnv(root); err != nil {
		return nil, err
	}

	return &project{
		root:    root,
		cfg:     cfg,
		logger:  newLogger(stderr, cfg.Log.Level, opts.verbose),
		verbose: opts.verbose,
	}, nil
}

// loadProjectOrDefaults falls back to default settings outside a project,
// so single files can be decoded anywhere.
func loadProjectOrDefaults(opts *globalOptions, stderr io.Writer) (*project, error) {
	p, err := loadProject(opts, stderr)
	if err == nil {
		return p, nil
	}
	root, _ := filepath.Abs(opts.repo)
	if _, statErr := os.Stat(filepath.Join(root, config.FileName)); statErr == nil {
		return nil, err
	}
	cfg := config.Default("")
	return &project{
		root:    root,
		cfg:     cfg,
		logger:  newLogger(stderr, cfg.Log.Level, opts.verbose),
		verbose: opts.verbose,
	}, nil
}

func newLogger(w io.Writer, level string, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: false})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func (p *project) openStore() (*store.Store, error) {
	opts := store.Options{
		Driver:  p.cfg.Store.Driver,
		Path:    config.Resolve(p.root, p.cfg.Store.Path),
		Verbose: p.verbose,
	}
	if p.cfg.Store.Driver == config.DriverPostgres {
		dsn, err := p.cfg.DSN()
		if err != nil {
			return nil, err
		}
		opts.DSN = dsn
	}
	return store.Open(opts)
}

func (p *project) loadCodes() (*codes.Service, error) {
	return codes.Load(p.root)
}
