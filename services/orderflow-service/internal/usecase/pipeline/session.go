package pipeline

import (
	"context"
	"sync"

	"github.com/muhammadchandra19/orderflow/pkg/logger"
	pipelineDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/pipeline"
	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/pipeline/v1"
)

// DefaultSession is used when a caller does not name a session.
const DefaultSession = "default"

// Sessions keeps one Runner per session name so that only runs of the same
// session supersede each other. A runner lives only while a run of its
// session is in flight.
type Sessions struct {
	pipeline pipelineDomain.Usecase
	logger   logger.Interface

	mu      sync.Mutex
	runners map[string]*sessionRunner
}

type sessionRunner struct {
	runner   *Runner
	inflight int
}

// NewSessions creates a new session registry around pipeline.
func NewSessions(pipeline pipelineDomain.Usecase, logger logger.Interface) *Sessions {
	return &Sessions{
		pipeline: pipeline,
		logger:   logger,
		runners:  make(map[string]*sessionRunner),
	}
}

// RunSession runs the pipeline on the runner of session.
func (s *Sessions) RunSession(ctx context.Context, session string, lines []string, cfg v1.Config) (*v1.Result, error) {
	session = sessionName(session)

	runner := s.acquire(session)
	defer s.release(session)

	return runner.Run(ctx, lines, cfg)
}

// Cancel cancels the in-flight run of session. Unknown or idle sessions are
// ignored.
func (s *Sessions) Cancel(session string) {
	session = sessionName(session)

	s.mu.Lock()
	entry, ok := s.runners[session]
	s.mu.Unlock()

	if ok {
		entry.runner.Cancel()
	}
}

func (s *Sessions) acquire(session string) *Runner {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.runners[session]
	if !ok {
		entry = &sessionRunner{runner: NewRunner(s.pipeline, s.logger)}
		s.runners[session] = entry
	}
	entry.inflight++
	return entry.runner
}

func (s *Sessions) release(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.runners[session]
	if !ok {
		return
	}
	entry.inflight--
	if entry.inflight <= 0 {
		delete(s.runners, session)
	}
}

func sessionName(session string) string {
	if session == "" {
		return DefaultSession
	}
	return session
}
