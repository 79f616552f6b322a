package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// SessionSweeper periodically drops expired wizard sessions
type SessionSweeper struct {
	sessions *WizardSessionService
	logger   *logrus.Logger
	stopCh   chan struct{}
	interval time.Duration
}

// NewSessionSweeper creates a new session sweeper
func NewSessionSweeper(sessions *WizardSessionService, interval time.Duration, logger *logrus.Logger) *SessionSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionSweeper{
		sessions: sessions,
		logger:   logger,
		stopCh:   make(chan struct{}),
		interval: interval,
	}
}

// Start begins the background sweep
func (s *SessionSweeper) Start() {
	s.logger.WithField("interval", s.interval.String()).Info("Starting wizard session sweeper")
	go s.run()
}

// Stop stops the background sweep
func (s *SessionSweeper) Stop() {
	s.logger.Info("Stopping wizard session sweeper")
	close(s.stopCh)
}

func (s *SessionSweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce()
		case <-s.stopCh:
			s.logger.Info("Wizard session sweeper stopped")
			return
		}
	}
}

// RunOnce runs a single sweep cycle
func (s *SessionSweeper) RunOnce() int {
	removed, err := s.sessions.Sweep(context.Background())
	if err != nil {
		s.logger.WithError(err).Error("Failed to sweep wizard sessions")
		return 0
	}
	if removed > 0 {
		s.logger.WithField("count", removed).Info("Expired wizard sessions removed")
	}
	return removed
}
