package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sidesearch/internal/models"
)

// State is the session lifecycle. Submissions are rejected while a
// response is pending; that guard, not a lock, is what serializes turns.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingInput   State = "awaitingInput"
	StateResponsePending State = "responsePending"
)

// Hooks are the session's outbound side effects. Any UI layer subscribes
// here; all hooks are optional.
type Hooks struct {
	OnMessage     func(models.AssistantMessage)
	OnNavigate    func(OpenAction)
	OnDismiss     func()
	OnStateChange func(State)
}

// SpeechCapture feeds recognized text into the session's input buffer.
// The capture pipeline itself is an external collaborator.
type SpeechCapture interface {
	// Start begins capture; onPartial is called with the latest transcript
	// (last value wins, no queuing of intermediates).
	Start(ctx context.Context, onPartial func(text string)) error
	Stop()
}

// SessionConfig carries the global preferences a session honors.
type SessionConfig struct {
	AutoSubmitOnSilence bool
	SilenceDuration     time.Duration
	StartWithMicMuted   bool
	Capture             SpeechCapture
}

// reply is what a response strategy hands back to the session.
type reply struct {
	message  *models.AssistantMessage
	navigate *OpenAction
	sources  []models.MessageSource
	dismiss  bool
}

type responder interface {
	respond(ctx context.Context, input string) (*reply, error)
}

// Session is the live conversation state for one backend. All transcript
// mutations happen under mu; strategy calls run outside it.
type Session struct {
	backendType Type
	responder   responder
	hooks       Hooks
	cfg         SessionConfig
	log         zerolog.Logger

	mu           sync.Mutex
	state        State
	messages     []models.AssistantMessage
	input        string
	silenceTimer *time.Timer
}

func newSession(backendType Type, responder responder, cfg SessionConfig, hooks Hooks, log zerolog.Logger) *Session {
	if cfg.SilenceDuration <= 0 {
		cfg.SilenceDuration = 2 * time.Second
	}
	return &Session{
		backendType: backendType,
		responder:   responder,
		hooks:       hooks,
		cfg:         cfg,
		log:         log.With().Str("backend", string(backendType)).Logger(),
		state:       StateIdle,
	}
}

func (s *Session) BackendType() Type { return s.backendType }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []models.AssistantMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AssistantMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Start begins the interaction, opening speech capture unless the user
// prefers to start muted or no capture pipeline is attached.
func (s *Session) Start(ctx context.Context) {
	if s.cfg.Capture == nil || s.cfg.StartWithMicMuted {
		return
	}
	if err := s.StartCapture(ctx); err != nil {
		s.appendSystemMessage(err.Error())
	}
}

// StartCapture opens the speech pipeline and routes partial transcripts
// into the input buffer.
func (s *Session) StartCapture(ctx context.Context) error {
	if s.cfg.Capture == nil {
		return ErrCapabilityUnavailable
	}

	s.mu.Lock()
	if s.state == StateResponsePending {
		s.mu.Unlock()
		return nil
	}
	s.input = ""
	s.setStateLocked(StateAwaitingInput)
	s.resetSilenceTimerLocked()
	s.mu.Unlock()

	return s.cfg.Capture.Start(ctx, s.SetInput)
}

// StopCapture stops the speech pipeline and the silence timer.
func (s *Session) StopCapture() {
	s.mu.Lock()
	s.stopSilenceTimerLocked()
	if s.state == StateAwaitingInput {
		s.setStateLocked(StateIdle)
	}
	s.mu.Unlock()

	if s.cfg.Capture != nil {
		s.cfg.Capture.Stop()
	}
}

// SetInput replaces the input buffer with the latest transcript and
// restarts the silence countdown.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.resetSilenceTimerLocked()
	s.mu.Unlock()
}

// ConfirmInput submits whatever is in the buffer.
func (s *Session) ConfirmInput(ctx context.Context) {
	s.mu.Lock()
	text := s.input
	s.mu.Unlock()
	s.Submit(ctx, text)
}

// Submit runs one conversation turn. Empty input and reentrant calls are
// no-ops. The session always returns to Idle, success or not, and the
// input buffer is cleared on acceptance.
func (s *Session) Submit(ctx context.Context, userText string) {
	if strings.TrimSpace(userText) == "" {
		return
	}

	s.mu.Lock()
	if s.state == StateResponsePending {
		s.mu.Unlock()
		return
	}
	s.stopSilenceTimerLocked()
	s.input = ""
	s.setStateLocked(StateResponsePending)
	userMsg := models.NewAssistantMessage(models.SenderUser, userText)
	s.messages = append(s.messages, userMsg)
	userIdx := len(s.messages) - 1
	s.mu.Unlock()

	if s.cfg.Capture != nil {
		s.cfg.Capture.Stop()
	}
	s.notifyMessage(userMsg)

	res, err := s.responder.respond(ctx, userText)

	s.mu.Lock()
	var out []models.AssistantMessage
	if err != nil {
		s.log.Warn().Err(err).Msg("assistant response failed")
		sysMsg := models.NewAssistantMessage(models.SenderSystem, err.Error())
		s.messages = append(s.messages, sysMsg)
		out = append(out, sysMsg)
	} else {
		if len(res.sources) > 0 {
			s.messages[userIdx].Sources = append(s.messages[userIdx].Sources, res.sources...)
		}
		if res.message != nil {
			s.messages = append(s.messages, *res.message)
			out = append(out, *res.message)
		}
	}
	s.setStateLocked(StateIdle)
	s.mu.Unlock()

	for _, msg := range out {
		s.notifyMessage(msg)
	}
	if err == nil && res.navigate != nil {
		if s.hooks.OnNavigate != nil {
			s.hooks.OnNavigate(*res.navigate)
		}
		if res.dismiss && s.hooks.OnDismiss != nil {
			s.hooks.OnDismiss()
		}
	}
}

func (s *Session) appendSystemMessage(text string) {
	msg := models.NewAssistantMessage(models.SenderSystem, text)
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	s.notifyMessage(msg)
}

func (s *Session) notifyMessage(msg models.AssistantMessage) {
	if s.hooks.OnMessage != nil {
		s.hooks.OnMessage(msg)
	}
}

// setStateLocked must be called with mu held.
func (s *Session) setStateLocked(state State) {
	if s.state == state {
		return
	}
	s.state = state
	if s.hooks.OnStateChange != nil {
		go s.hooks.OnStateChange(state)
	}
}

// resetSilenceTimerLocked restarts the one-shot silence countdown. Must be
// called with mu held.
func (s *Session) resetSilenceTimerLocked() {
	if !s.cfg.AutoSubmitOnSilence {
		return
	}
	if s.silenceTimer != nil {
		s.silenceTimer.Stop()
	}
	s.silenceTimer = time.AfterFunc(s.cfg.SilenceDuration, s.silenceTimedOut)
}

func (s *Session) stopSilenceTimerLocked() {
	if s.silenceTimer != nil {
		s.silenceTimer.Stop()
		s.silenceTimer = nil
	}
}

// silenceTimedOut fires once per idle period: submit the buffer if it has
// content, otherwise just stop capturing.
func (s *Session) silenceTimedOut() {
	s.mu.Lock()
	input := s.input
	capturing := s.state == StateAwaitingInput
	s.mu.Unlock()

	if !capturing {
		return
	}
	if strings.TrimSpace(input) != "" {
		s.Submit(context.Background(), input)
		return
	}
	s.StopCapture()
}
