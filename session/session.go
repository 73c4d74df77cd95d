// Package session owns the per-visit workflow state: who is logged in, which
// summarization mode is active, and the transient per-action fired flags that
// guarantee at-most-once dispatch per user click.
package session

import (
	"sync"
	"time"
)

// Mode is the summarization backend selected for the session.
type Mode string

const (
	ModeUnset     Mode = ""
	ModeDemo      Mode = "demo"
	ModeOwnKey    Mode = "own_key"
	ModeHostedOSS Mode = "hosted_oss"
)

// Action names a user-triggered operation subject to at-most-once dispatch.
type Action string

const (
	ActionLogin      Action = "login"
	ActionSignup     Action = "signup"
	ActionSelectMode Action = "select_mode"
	ActionSubmitKey  Action = "submit_key"
	ActionBack       Action = "back"
	ActionLogout     Action = "logout"
	ActionSimplify   Action = "simplify"
	ActionRiskScan   Action = "risk_scan"
)

// State is the workflow position derived from the session fields.
type State string

const (
	StateLoggedOut   State = "logged_out"
	StateModeUnset   State = "mode_unset"   // authenticated, no mode picked yet
	StateModePending State = "mode_pending" // own-key picked, waiting for the key
	StateReady       State = "ready"        // workspace screens available
)

// Session is one user visit. It is safe for concurrent use; every handler
// touching it goes through the mutex-guarded methods below.
type Session struct {
	mu sync.Mutex

	Token     string
	CreatedAt time.Time

	loggedIn      bool
	email         string
	mode          Mode
	apiKey        string
	modeConfirmed bool

	fired map[Action]bool

	// Last successful simplify, kept so the PDF and voice downloads can be
	// rendered on demand.
	lastSummary  string
	lastFilename string
}

func newSession(token string) *Session {
	return &Session{
		Token:     token,
		CreatedAt: time.Now(),
		fired:     make(map[Action]bool),
	}
}

// Fire marks an action as triggered by the user. The corresponding workflow
// step consumes the flag before running any side effect.
func (s *Session) Fire(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fired[a] = true
}

// consume clears the fired flag and reports whether it was set. Clearing
// happens before any effect runs, so a re-rendered or duplicated submission
// can never dispatch the same click twice.
func (s *Session) consume(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fired[a] {
		return false
	}
	s.fired[a] = false
	return true
}

// Fired reports whether an action is currently pending dispatch.
func (s *Session) Fired(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired[a]
}

// State derives the workflow position from the session fields.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !s.loggedIn:
		return StateLoggedOut
	case s.modeConfirmed:
		return StateReady
	case s.mode == ModeOwnKey:
		return StateModePending
	default:
		return StateModeUnset
	}
}

func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

func (s *Session) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey
}

// ModeConfirmed is true only when a mode is set and, for own-key mode, a
// non-empty key has been provided.
func (s *Session) ModeConfirmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modeConfirmed
}

func (s *Session) setAuthenticated(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.email = email
}

// setMode records the picked mode. Demo and hosted-open-source confirm
// immediately; own-key stays pending until a key arrives.
func (s *Session) setMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	s.apiKey = ""
	s.modeConfirmed = m == ModeDemo || m == ModeHostedOSS
}

func (s *Session) setAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = key
	s.modeConfirmed = s.mode != ModeOwnKey || key != ""
}

// resetMode clears all mode-related state, not just the mode field.
func (s *Session) resetMode() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeUnset
	s.apiKey = ""
	s.modeConfirmed = false
	s.lastSummary = ""
	s.lastFilename = ""
}

func (s *Session) clearIdentity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = false
	s.email = ""
	s.mode = ModeUnset
	s.apiKey = ""
	s.modeConfirmed = false
	s.lastSummary = ""
	s.lastFilename = ""
}

func (s *Session) setLastSummary(summary, filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSummary = summary
	s.lastFilename = filename
}

// LastSummary returns the most recent simplify result, if any.
func (s *Session) LastSummary() (summary, filename string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSummary, s.lastFilename, s.lastSummary != ""
}
