// Package vocab runs a vocabulary lookup end to end: it turns the editor's
// selection into a note link, generates content for the word and writes it
// to the word's note.
package vocab

import (
	"context"
	"log/slog"
	"strings"

	"github.com/starford/lexicon/internal/apperr"
	"github.com/starford/lexicon/internal/generator"
	"github.com/starford/lexicon/internal/models"
	"github.com/starford/lexicon/internal/notewriter"
	"github.com/starford/lexicon/internal/pattern"
	"github.com/starford/lexicon/internal/settings"
)

// Notices shown to the editor.
const (
	NoticeEmptySelection = "Please select a word first."
	noticeCreated        = "Created vocabulary note: "
	noticeUpdated        = "Updated vocabulary note: "
	noticeError          = "Error: "
)

// Generator produces content for a word; it never fails.
type Generator interface {
	Generate(ctx context.Context, word string, s settings.Settings) generator.Result
}

// NoteWriter persists generated content.
type NoteWriter interface {
	Write(path, content, headerWord string, opts ...notewriter.Option) (notewriter.Outcome, error)
}

// Recorder stores completed lookups.
type Recorder interface {
	RecordLookup(l models.Lookup) error
}

// Publisher announces note changes and finished lookups to live clients.
type Publisher interface {
	PublishNoteEvent(kind, path string)
	PublishLookup(data any)
}

// Observer counts lookups by outcome.
type Observer interface {
	ObserveLookup(outcome string)
}

// Result describes a finished lookup.
type Result struct {
	Word    string             `json:"word"`
	Link    string             `json:"link"`
	Path    string             `json:"path"`
	Outcome notewriter.Outcome `json:"outcome,omitempty"`
	Kind    generator.Kind     `json:"kind,omitempty"`
	Model   string             `json:"model,omitempty"`
}

// Service is the lookup orchestrator.
type Service struct {
	settings *settings.Store
	gen      Generator
	writer   NoteWriter
	logger   *slog.Logger

	history  Recorder
	events   Publisher
	observer Observer
}

// Option configures a Service.
type Option func(*Service)

// WithHistory records every written lookup in r.
func WithHistory(r Recorder) Option {
	return func(s *Service) { s.history = r }
}

// WithPublisher announces every written lookup on p.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithObserver reports lookup outcomes to o.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// NewService creates a lookup orchestrator.
func NewService(store *settings.Store, gen Generator, writer NoteWriter, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{settings: store, gen: gen, writer: writer, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup runs one lookup against ed. The selection is replaced by the note
// link before generation starts and is left in place if the write fails.
// Every outcome is reported to ed as a notice; the returned error lets
// adapters pick an exit or status code.
func (s *Service) Lookup(ctx context.Context, ed Editor) (*Result, error) {
	word := strings.TrimSpace(ed.Selection())
	if word == "" {
		ed.Notice(NoticeEmptySelection)
		return nil, apperr.ErrEmptySelection
	}

	cfg := s.settings.Get()
	target := pattern.Resolve(cfg.NoteNamePattern, word)
	ed.ReplaceSelection(target.Link)

	res := &Result{Word: word, Link: target.Link, Path: target.Path}

	gen := s.gen.Generate(ctx, word, cfg)
	res.Kind = gen.Kind
	res.Model = gen.Model

	var opts []notewriter.Option
	if gen.Placeholder() {
		opts = append(opts, notewriter.ForceHeader())
	}

	outcome, err := s.writer.Write(target.Path, gen.Text, word, opts...)
	if err != nil {
		s.logger.Error("lookup failed",
			slog.String("word", word),
			slog.String("path", target.Path),
			slog.String("error", err.Error()))
		ed.Notice(noticeError + err.Error())
		s.observe("failed")
		return res, err
	}
	res.Outcome = outcome

	if outcome == notewriter.OutcomeCreated {
		ed.Notice(noticeCreated + target.Path)
	} else {
		ed.Notice(noticeUpdated + target.Path)
	}

	s.logger.Info("lookup done",
		slog.String("word", word),
		slog.String("path", target.Path),
		slog.String("outcome", string(outcome)),
		slog.String("kind", string(gen.Kind)))

	s.afterWrite(res)
	return res, nil
}

// afterWrite feeds history, metrics and live events. Failures are logged only.
func (s *Service) afterWrite(res *Result) {
	s.observe(string(res.Outcome))

	if s.history != nil {
		err := s.history.RecordLookup(models.Lookup{
			Word:    res.Word,
			Path:    res.Path,
			Outcome: string(res.Outcome),
			Kind:    string(res.Kind),
			Model:   res.Model,
		})
		if err != nil {
			s.logger.Warn("lookup: record history failed",
				slog.String("word", res.Word),
				slog.String("error", err.Error()))
		}
	}

	if s.events != nil {
		s.events.PublishNoteEvent(string(res.Outcome), res.Path)
		s.events.PublishLookup(res)
	}
}

func (s *Service) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveLookup(outcome)
	}
}
