// Package probe orchestrates a single fingerprinting session against an
// OFX server.
package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/BarakBinyamin/ofxpostern/internal/common"
	"github.com/BarakBinyamin/ofxpostern/internal/interfaces"
	"github.com/BarakBinyamin/ofxpostern/internal/models"
	"github.com/BarakBinyamin/ofxpostern/internal/ofx"
	"github.com/BarakBinyamin/ofxpostern/internal/services/report"
)

// Session holds the state of one probe run: the target identity and the
// in-memory result registry. It is created at session start and discarded
// when the run ends; nothing outlives it but the cache entries on disk.
type Session struct {
	ID       string
	Identity models.ServerIdentity
	Results  map[string]*models.OFXResponse
	Started  time.Time
	Ended    time.Time
}

// Service runs probe sessions.
type Service struct {
	client interfaces.OFXClient
	store  interfaces.CacheStore
	logger *common.Logger
	out    io.Writer
}

// Option configures the probe service.
type Option func(*Service)

// WithOutput redirects the session's report output (stdout by default).
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		s.out = w
	}
}

// NewService creates a new probe service.
func NewService(client interfaces.OFXClient, store interfaces.CacheStore, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		client: client,
		store:  store,
		logger: logger,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one session against the identity: establish the cache
// layout, send the profile request, persist the raw exchange, then
// project and print the report. Steps are strictly sequential; any
// failure aborts the run with nothing printed past the progress lines.
func (s *Service) Run(ctx context.Context, identity models.ServerIdentity) error {
	cacheDir, err := s.store.EnsureLayout(identity)
	if err != nil {
		return err
	}

	session := &Session{
		ID:       uuid.New().String(),
		Identity: identity,
		Results:  make(map[string]*models.OFXResponse),
	}

	s.logger.Debug().
		Str("session", session.ID).
		Str("url", identity.URL).
		Str("cache", cacheDir).
		Msg("Session starting")

	fmt.Fprintf(s.out, "%s: version %s\n\n", common.ProgramName, common.GetVersion())

	session.Started = time.Now()
	fmt.Fprintf(s.out, "Start: %s\n", session.Started.Format(time.ANSIC))
	fmt.Fprintf(s.out, "  Sending <PROFRQ>\n")

	if err := s.sendProfileRequest(ctx, session); err != nil {
		return err
	}

	session.Ended = time.Now()
	fmt.Fprintf(s.out, "End:   %s\n\n", session.Ended.Format(time.ANSIC))

	raw := session.Results[ofx.RequestNameProfile]
	profile, err := ofx.ParseProfile(raw.Text)
	if err != nil {
		return fmt.Errorf("failed to parse profile response: %w", err)
	}

	fmt.Fprint(s.out, report.FormatReport(profile, raw))

	s.logger.Debug().
		Str("session", session.ID).
		Dur("elapsed", session.Ended.Sub(session.Started)).
		Msg("Session complete")

	return nil
}

// sendProfileRequest issues the profile request exactly once, persists the
// raw exchange for audit, and records the response in the session
// registry. A transport failure leaves no cache entry behind.
func (s *Service) sendProfileRequest(ctx context.Context, session *Session) error {
	res, err := s.client.SendRequest(ctx, ofx.RequestNameProfile, session.Identity)
	if err != nil {
		return fmt.Errorf("profile request failed: %w", err)
	}

	if err := s.store.Write(session.Identity, ofx.RequestNameProfile, res.Headers, res.Text); err != nil {
		return err
	}

	session.Results[ofx.RequestNameProfile] = res
	return nil
}
