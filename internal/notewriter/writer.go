// Package notewriter creates vocabulary notes and appends new sections to
// existing ones without touching earlier content.
package notewriter

import (
	"fmt"
	"sync"
)

// Separator joins successive sections of a note.
const Separator = "\n---\n\n"

// Store is the subset of the vault the writer needs.
type Store interface {
	Exists(path string) (bool, error)
	Read(path string) ([]byte, error)
	Create(path string, content []byte) error
	Modify(path string, content []byte) error
}

// Outcome says whether Write created a note or extended one.
type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeAppended Outcome = "appended"
)

type writeOptions struct {
	forceHeader bool
}

// Option adjusts a single Write call.
type Option func(*writeOptions)

// ForceHeader always titles a new note with "# word", skipping the
// NeedsSyntheticHeader check.
func ForceHeader() Option {
	return func(o *writeOptions) {
		o.forceHeader = true
	}
}

// Writer merges content into notes. Writes to the same path are serialized.
type Writer struct {
	store Store
	locks pathLocks
}

// New creates a Writer over store.
func New(store Store) *Writer {
	return &Writer{store: store}
}

// Write creates the note at path or appends content to it. headerWord is used
// for the synthetic title of a new note.
func (w *Writer) Write(path, content, headerWord string, opts ...Option) (Outcome, error) {
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}

	unlock := w.locks.lock(path)
	defer unlock()

	exists, err := w.store.Exists(path)
	if err != nil {
		return "", fmt.Errorf("notewriter: check %s: %w", path, err)
	}

	if !exists {
		body := content
		if o.forceHeader || NeedsSyntheticHeader(content, headerWord) {
			body = "# " + headerWord + "\n\n" + content
		}
		if err := w.store.Create(path, []byte(body+"\n")); err != nil {
			return "", fmt.Errorf("notewriter: create %s: %w", path, err)
		}
		return OutcomeCreated, nil
	}

	current, err := w.store.Read(path)
	if err != nil {
		return "", fmt.Errorf("notewriter: read %s: %w", path, err)
	}
	merged := string(current) + Separator + content + "\n"
	if err := w.store.Modify(path, []byte(merged)); err != nil {
		return "", fmt.Errorf("notewriter: modify %s: %w", path, err)
	}
	return OutcomeAppended, nil
}

// pathLocks hands out one mutex per note path. Entries are dropped once no
// writer holds or waits for them.
type pathLocks struct {
	mu sync.Mutex
	m  map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

func (p *pathLocks) lock(path string) func() {
	p.mu.Lock()
	if p.m == nil {
		p.m = make(map[string]*pathLock)
	}
	l, ok := p.m[path]
	if !ok {
		l = &pathLock{}
		p.m[path] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.m, path)
		}
		p.mu.Unlock()
	}
}
