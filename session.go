package crinex

import (
	"github.com/arloliu/crinex/engine"
	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/rinex"
	"github.com/arloliu/crinex/textcodec"
)

// Session bundles the per-file state of one compression or decompression: the
// difference engine, the state machine and the settings they run with.
//
// A Session is created from the stream header and discarded with the stream;
// it is never shared between files.
type Session struct {
	cfg    *Config
	layout textcodec.Layout
	engine *engine.Engine
	sm     *StateMachine
}

func newSession(cfg *Config, h *rinex.Header, order int) (*Session, error) {
	if err := cfg.checkRevision(h.Revision); err != nil {
		return nil, err
	}

	eng, err := engine.New(engine.Config{Order: order, Revision: h.Revision, TypeCounts: h.TypeCounts()})
	if err != nil {
		return nil, err
	}

	return &Session{
		cfg:    cfg,
		layout: textcodec.LayoutFor(h.Revision),
		engine: eng,
		sm:     NewStateMachine(),
	}, nil
}

// Revision returns the stream revision.
func (s *Session) Revision() format.Revision {
	return s.layout.Revision
}

// Strict reports whether modern records are wrapped on output.
func (s *Session) Strict() bool {
	return s.cfg.Strict
}

// Engine returns the difference engine of the stream.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// State returns the state machine position.
func (s *Session) State() State {
	return s.sm.State()
}

// legacyTypes returns the shared observable count of a legacy stream, 0 for
// modern streams.
func (s *Session) legacyTypes() int {
	if s.layout.Revision != format.RevisionLegacy {
		return 0
	}
	n, _ := s.engine.NumTypes(rinex.AllSystems)

	return n
}

// applyEvent takes the observable declarations of a header event into account.
func (s *Session) applyEvent(ev *rinex.Event) error {
	if ev.Flag != format.FlagHeader {
		return nil
	}

	updates, err := rinex.ParseTypeUpdates(ev.Payload)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}

	counts := make(map[byte]int, len(updates))
	for sys, types := range updates {
		counts[sys] = len(types)
	}
	s.engine.UpdateTypes(counts)

	return nil
}

// Stats summarises a finished or running stream.
type Stats struct {
	Epochs   int
	Events   int
	Comments int
	// Lines is the number of lines written by a compressor or read by a
	// decompressor, header included.
	Lines        int
	SlotsLive    int
	SlotsCreated int
	SlotsRetired int
}

func (s *Session) stats(lines int) Stats {
	st := Stats{Lines: lines}
	if s == nil {
		return st
	}

	st.Epochs, st.Events, st.Comments = s.sm.Counts()
	es := s.engine.Stats()
	st.SlotsLive, st.SlotsCreated, st.SlotsRetired = es.SlotsLive, es.SlotsCreated, es.SlotsRetired

	return st
}
