package importer

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/finman-dev/finman/internal/id"
	"github.com/finman-dev/finman/internal/importlog"
	"github.com/finman-dev/finman/internal/izvod"
	"github.com/finman-dev/finman/internal/model"
	"github.com/finman-dev/finman/internal/store"
)

// Ledger is the part of the store the importer writes to.
type Ledger interface {
	HasStatement(ctx context.Context, year, number string) (bool, error)
	BookStatement(ctx context.Context, st *model.Statement, a store.Assignment, codes store.CodeChecker) (*store.Booked, error)
}

// Settings are the importer knobs taken from the project config.
type Settings struct {
	ImportDir    string
	ProcessedDir string
	Extensions   []string
	Assignment   store.Assignment
}

// Service imports statement files from a directory into the ledger.
type Service struct {
	root     string
	settings Settings
	parser   Parser
	ledger   Ledger
	codes    store.CodeChecker
	logger   *log.Logger
	now      func() time.Time
}

// NewService creates an import Service. root is the project directory the
// import log is kept under.
func NewService(root string, settings Settings, parser Parser, ledger Ledger, codes store.CodeChecker, logger *log.Logger) *Service {
	return &Service{
		root:     root,
		settings: settings,
		parser:   parser,
		ledger:   ledger,
		codes:    codes,
		logger:   logger,
		now:      time.Now,
	}
}

// RunOptions controls a single Run.
type RunOptions struct {
	// DryRun decodes and checks for duplicates without booking, moving or
	// logging anything.
	DryRun bool
}

// FileResult is what happened to one file.
type FileResult struct {
	File      string
	Statement *model.Statement
	Action    importlog.Action
	Booked    int
	Unbooked  int
	Err       error

	unbookedReasons []string
}

func (r *FileResult) noteUnbooked(lines []model.StatementLine) {
	r.Unbooked = len(lines)
	for _, l := range lines {
		if reason := store.UnbookedReason(l); !slices.Contains(r.unbookedReasons, reason) {
			r.unbookedReasons = append(r.unbookedReasons, reason)
		}
	}
}

// Report summarizes a Run.
type Report struct {
	Files []FileResult
}

// Failed counts files that could not be imported.
func (r *Report) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Action == importlog.ActionFailed {
			n++
		}
	}
	return n
}

// Run imports every statement file in the import directory. A file that
// fails to decode or book is reported and left in place; the remaining
// files are still imported.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	files, err := Scan(s.settings.ImportDir, s.settings.Extensions)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("scanned import dir", "dir", s.settings.ImportDir, "files", len(files))

	report := &Report{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := s.importFile(ctx, f, opts.DryRun)
		report.Files = append(report.Files, res)

		if opts.DryRun {
			continue
		}
		if err := importlog.Append(s.root, s.record(res)); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (s *Service) importFile(ctx context.Context, f FileInfo, dryRun bool) FileResult {
	res := FileResult{File: f.Name}
	logger := s.logger.With("file", f.Name)

	st, err := s.parse(f.Path)
	if err != nil {
		logger.Error("cannot decode statement", "err", err)
		res.Action, res.Err = importlog.ActionFailed, err
		return res
	}
	res.Statement = st
	logger = logger.With("statement", id.StatementKey(st.Year, st.Number))

	for _, sk := range st.Skipped {
		logger.Warn("skipped malformed line", "line", sk.LineNo, "err", sk.Err)
	}

	dup, err := s.ledger.HasStatement(ctx, st.Year, st.Number)
	if err != nil {
		logger.Error("cannot check ledger", "err", err)
		res.Action, res.Err = importlog.ActionFailed, err
		return res
	}
	if dup {
		logger.Warn("statement already booked")
		res.Action = importlog.ActionDuplicate
		if !dryRun {
			s.moveProcessed(logger, &res, f.Path)
		}
		return res
	}

	if dryRun {
		entries, unbooked := store.EntriesFor(st, s.settings.Assignment)
		res.Action = importlog.ActionBooked
		res.Booked = len(entries)
		res.noteUnbooked(unbooked)
		logger.Info("would book statement", "entries", res.Booked, "unbooked", res.Unbooked)
		return res
	}

	booked, err := s.ledger.BookStatement(ctx, st, s.settings.Assignment, s.codes)
	if err != nil {
		logger.Error("cannot book statement", "err", err)
		res.Action, res.Err = importlog.ActionFailed, err
		return res
	}
	res.Action = importlog.ActionBooked
	res.Booked = len(booked.Entries)
	res.noteUnbooked(booked.Unbooked)

	for _, l := range booked.Unbooked {
		logger.Warn("line left unbooked", "line", l.LineNo, "reason", store.UnbookedReason(l), "amount", l.Amount.StringFixed(2), "date", l.DisplayDate())
	}
	logger.Info("booked statement", "entries", res.Booked)

	s.moveProcessed(logger, &res, f.Path)
	return res
}

func (s *Service) parse(path string) (*model.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &izvod.FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	return s.parser.Parse(f, path)
}

func (s *Service) moveProcessed(logger *log.Logger, res *FileResult, path string) {
	if err := MarkProcessed(path, s.settings.ProcessedDir); err != nil {
		logger.Error("cannot move statement to processed", "err", err)
		res.Err = err
	}
}

func (s *Service) record(res FileResult) importlog.Record {
	rec := importlog.Record{
		Timestamp: s.now().UTC(),
		File:      res.File,
		Action:    res.Action,
		Lines:     res.Booked,
	}
	if res.Statement != nil {
		rec.Statement = res.Statement.Number + "/" + res.Statement.Year
	}
	switch {
	case res.Err != nil:
		rec.Details = res.Err.Error()
	case res.Unbooked > 0:
		rec.Details = fmt.Sprintf("%d line(s) left unbooked, %s", res.Unbooked, strings.Join(res.unbookedReasons, ", "))
	}
	if res.Statement != nil && len(res.Statement.Skipped) > 0 {
		if rec.Details != "" {
			rec.Details += "; "
		}
		rec.Details += fmt.Sprintf("%d malformed line(s) skipped", len(res.Statement.Skipped))
	}
	return rec
}
