package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Learning-is-key/LegalLite/models"
	"github.com/Learning-is-key/LegalLite/services"
)

// Dispatch and transition errors. Everything here is converted to a
// user-visible message at the handler boundary; nothing crashes the session.
var (
	ErrNotFired         = errors.New("action was not triggered")
	ErrNotAuthenticated = errors.New("login required")
	ErrModeNotReady     = errors.New("choose a mode before using the workspace")
	ErrEmptyKey         = errors.New("please enter your API key")
	ErrKeyNotPending    = errors.New("no API key entry in progress")
	ErrNoSummary        = errors.New("no summary available yet")
)

// UserStore is the slice of the credential store the workflow needs.
type UserStore interface {
	Register(email, password string) error
	Authenticate(email, password string) (*models.User, error)
	RecordUpload(email, filename, summary string) error
	History(email string) ([]models.Upload, error)
}

// Workflow sequences Login -> Mode Selection -> (key entry) -> Ready ->
// workspace actions. Every action method consumes its fired flag before any
// storage or network side effect, so one click dispatches at most once no
// matter how often the client re-submits.
type Workflow struct {
	sessions *Store
	users    UserStore

	demo   services.Provider
	hosted services.Provider

	openAIBaseURL string
	archive       *services.Archive
	logger        *slog.Logger
}

type Option func(*Workflow)

// WithArchive attaches the optional artifact archive.
func WithArchive(a *services.Archive) Option {
	return func(w *Workflow) { w.archive = a }
}

// WithDemoProvider overrides the demo backend (used by tests).
func WithDemoProvider(p services.Provider) Option {
	return func(w *Workflow) { w.demo = p }
}

func New(sessions *Store, users UserStore, hosted services.Provider, openAIBaseURL string, logger *slog.Logger, opts ...Option) *Workflow {
	w := &Workflow{
		sessions:      sessions,
		users:         users,
		demo:          services.DemoProvider{},
		hosted:        hosted,
		openAIBaseURL: openAIBaseURL,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Login authenticates against the credential store. On failure the session
// stays logged out.
func (w *Workflow) Login(ctx context.Context, s *Session, email, password string) error {
	if !s.consume(ActionLogin) {
		return ErrNotFired
	}
	user, err := w.users.Authenticate(email, password)
	if err != nil {
		return err
	}
	s.setAuthenticated(user.Email)
	w.logger.Info("user logged in", "email", user.Email)
	return nil
}

// Signup creates an account. The session remains logged out; the user logs
// in afterwards.
func (w *Workflow) Signup(ctx context.Context, s *Session, email, password string) error {
	if !s.consume(ActionSignup) {
		return ErrNotFired
	}
	if err := w.users.Register(email, password); err != nil {
		return err
	}
	w.logger.Info("user signed up", "email", email)
	return nil
}

// SelectMode picks the summarization backend. Demo and hosted-open-source
// are ready immediately; own-key waits for SubmitKey.
func (w *Workflow) SelectMode(s *Session, m Mode) error {
	if !s.consume(ActionSelectMode) {
		return ErrNotFired
	}
	if !s.LoggedIn() {
		return ErrNotAuthenticated
	}
	switch m {
	case ModeDemo, ModeOwnKey, ModeHostedOSS:
		s.setMode(m)
		return nil
	default:
		return fmt.Errorf("unknown mode %q", m)
	}
}

// SubmitKey stores the user's API key for own-key mode. An empty key
// re-prompts and the session stays pending.
func (w *Workflow) SubmitKey(s *Session, key string) error {
	if !s.consume(ActionSubmitKey) {
		return ErrNotFired
	}
	if s.State() != StateModePending {
		return ErrKeyNotPending
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	s.setAPIKey(key)
	return nil
}

// Back returns to mode selection, clearing the mode, any stored key and the
// last summary.
func (w *Workflow) Back(s *Session) error {
	if !s.consume(ActionBack) {
		return ErrNotFired
	}
	s.resetMode()
	return nil
}

// Logout clears the identity and removes the session token.
func (w *Workflow) Logout(s *Session) error {
	if !s.consume(ActionLogout) {
		return ErrNotFired
	}
	email := s.Email()
	s.clearIdentity()
	w.sessions.Delete(s.Token)
	w.logger.Info("user logged out", "email", email)
	return nil
}

// SimplifyResult is the outcome of one successful simplify action.
type SimplifyResult struct {
	Filename   string
	Summary    string
	RiskyTerms []string
}

// Simplify runs the upload-and-simplify step: size gate, text extraction,
// summarization via the session's mode, then one history record. Provider
// failures are returned as errors and never written to history.
func (w *Workflow) Simplify(ctx context.Context, s *Session, filename string, data []byte) (*SimplifyResult, error) {
	if !s.consume(ActionSimplify) {
		return nil, ErrNotFired
	}
	if s.State() != StateReady {
		return nil, ErrModeNotReady
	}

	text, err := services.ExtractText(data)
	if err != nil {
		return nil, err
	}

	summary, err := w.provider(s).Summarize(ctx, text, filename)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(summary) == "" {
		return nil, services.ErrEmptySummary
	}

	if err := w.users.RecordUpload(s.Email(), filename, summary); err != nil {
		w.logger.Error("failed to record upload", "email", s.Email(), "error", err)
	}
	s.setLastSummary(summary, filename)

	w.archivePDF(ctx, s, summary, filename)

	return &SimplifyResult{
		Filename:   filename,
		Summary:    summary,
		RiskyTerms: services.FindRiskyTerms(text),
	}, nil
}

// RiskScanResult is the outcome of a risky-terms scan. Analysis is only
// attempted for own-key sessions that asked for it, and its failure does not
// void the term list.
type RiskScanResult struct {
	Terms       []string
	Analysis    string
	AnalysisErr error
}

// RiskScan extracts the document and returns the risky phrases found,
// optionally with an own-key AI risk analysis.
func (w *Workflow) RiskScan(ctx context.Context, s *Session, data []byte, analyze bool) (*RiskScanResult, error) {
	if !s.consume(ActionRiskScan) {
		return nil, ErrNotFired
	}
	if s.State() != StateReady {
		return nil, ErrModeNotReady
	}

	text, err := services.ExtractText(data)
	if err != nil {
		return nil, err
	}

	res := &RiskScanResult{Terms: services.FindRiskyTerms(text)}
	if analyze && s.Mode() == ModeOwnKey {
		res.Analysis, res.AnalysisErr = services.RiskAnalysis(ctx, text, s.APIKey(), w.openAIBaseURL)
	}
	return res, nil
}

// History lists the session user's upload records in creation order.
func (w *Workflow) History(s *Session) ([]models.Upload, error) {
	if !s.LoggedIn() {
		return nil, ErrNotAuthenticated
	}
	return w.users.History(s.Email())
}

// Artifacts lists the archived objects stored for the session user. Without
// an archive configured there is nothing to list.
func (w *Workflow) Artifacts(ctx context.Context, s *Session) ([]string, error) {
	if !s.LoggedIn() {
		return nil, ErrNotAuthenticated
	}
	if w.archive == nil {
		return nil, nil
	}
	return w.archive.List(ctx, s.Email())
}

// SummaryPDF renders the session's last summary as a downloadable PDF.
func (w *Workflow) SummaryPDF(ctx context.Context, s *Session) ([]byte, string, error) {
	summary, filename, ok := s.LastSummary()
	if !ok {
		return nil, "", ErrNoSummary
	}
	data, err := services.GeneratePDF(summary, filename)
	if err != nil {
		return nil, "", err
	}
	name := "simplified_" + strings.TrimSuffix(filename, ".pdf") + ".pdf"
	return data, name, nil
}

// SummaryVoice synthesizes the session's last summary as speech. Failures
// degrade gracefully: the summary itself stays available.
func (w *Workflow) SummaryVoice(ctx context.Context, s *Session) ([]byte, error) {
	summary, _, ok := s.LastSummary()
	if !ok {
		return nil, ErrNoSummary
	}
	audio, err := services.GenerateVoice(summary)
	if err != nil {
		return nil, err
	}
	if w.archive != nil {
		w.archive.Store(ctx, s.Email(), "summary_audio.mp3", audio, "audio/mpeg")
	}
	return audio, nil
}

// provider picks the backend for the session's confirmed mode.
func (w *Workflow) provider(s *Session) services.Provider {
	switch s.Mode() {
	case ModeOwnKey:
		return services.NewOpenAIProvider(s.APIKey(), w.openAIBaseURL)
	case ModeHostedOSS:
		return w.hosted
	default:
		return w.demo
	}
}

func (w *Workflow) archivePDF(ctx context.Context, s *Session, summary, filename string) {
	if w.archive == nil {
		return
	}
	data, err := services.GeneratePDF(summary, filename)
	if err != nil {
		w.logger.Warn("summary PDF render failed for archive", "error", err)
		return
	}
	w.archive.Store(ctx, s.Email(), "simplified_"+strings.TrimSuffix(filename, ".pdf")+".pdf", data, "application/pdf")
}
