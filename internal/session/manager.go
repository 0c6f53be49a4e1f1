// ABOUTME: Manages per-user assistant threads and the message/run/poll pipeline.
// ABOUTME: Central coordinator between the chat API and the OpenAI backend.

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Terminal run states. Anything else is treated as still in progress.
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusCancelled = "cancelled"
)

// Degraded reply texts. These are returned in-band instead of errors so
// callers always receive a Reply regardless of backend behavior.
const (
	replyRunFailed     = "Sorry, I encountered an error processing your message."
	replyNoResponse    = "No response"
	replyErrorPrefix   = "Sorry, an error occurred: "
	defaultPollWait    = time.Second
	defaultMaxAttempts = 60
)

// AssistantConfig describes the assistant submitted to the backend.
type AssistantConfig struct {
	Model        string
	Name         string
	Instructions string
}

// Backend is the surface of the conversational-AI API the manager drives.
// The concrete implementation lives in internal/backend.
type Backend interface {
	// CreateAssistant registers an assistant and returns its ID.
	CreateAssistant(ctx context.Context, cfg AssistantConfig) (string, error)

	// UpdateAssistant replaces the configuration of an existing assistant.
	UpdateAssistant(ctx context.Context, assistantID string, cfg AssistantConfig) error

	// CreateThread creates an empty conversation thread and returns its ID.
	CreateThread(ctx context.Context) (string, error)

	// AddUserMessage appends a user-authored message to a thread.
	AddUserMessage(ctx context.Context, threadID, text string) error

	// CreateRun starts an assistant run on a thread and returns the run ID.
	CreateRun(ctx context.Context, threadID, assistantID string) (string, error)

	// RunStatus fetches the current status string of a run.
	RunStatus(ctx context.Context, threadID, runID string) (string, error)

	// LatestAssistantMessage returns the text of the most recent message on
	// the thread. The bool is false when the thread has no messages.
	LatestAssistantMessage(ctx context.Context, threadID string) (string, bool, error)
}

// PersonaSource provides the current persona instructions.
// Implemented by persona.Loader.
type PersonaSource interface {
	Current() string
}

// Reply is the result of processing one user message. ThreadID is nil when
// the pipeline failed before the thread could be reported back.
type Reply struct {
	Text     string
	ThreadID *string
}

// pendingThread tracks an in-flight thread creation so concurrent first
// messages from the same user share one backend call.
type pendingThread struct {
	done     chan struct{}
	threadID string
	err      error
}

// Manager owns the assistant registration and the user -> thread mapping.
// Safe for concurrent use by multiple request handlers.
type Manager struct {
	backend  Backend
	personas PersonaSource
	model    string
	name     string
	logger   *slog.Logger

	mu          sync.Mutex
	assistantID string
	threads     map[string]string
	pending     map[string]*pendingThread

	// Poll loop knobs, overridable in tests.
	pollWait    time.Duration
	maxAttempts int
}

// NewManager creates a Manager. Initialize must be called before the first
// SendMessage.
func NewManager(backend Backend, personas PersonaSource, model, name string, logger *slog.Logger) *Manager {
	return &Manager{
		backend:     backend,
		personas:    personas,
		model:       model,
		name:        name,
		logger:      logger,
		threads:     make(map[string]string),
		pending:     make(map[string]*pendingThread),
		pollWait:    defaultPollWait,
		maxAttempts: defaultMaxAttempts,
	}
}

// Initialize submits the assistant configuration to the backend and stores
// the returned assistant ID. An error here is fatal for the service: no
// thread can produce a valid reply without an assistant.
func (m *Manager) Initialize(ctx context.Context) error {
	assistantID, err := m.backend.CreateAssistant(ctx, m.assistantConfig())
	if err != nil {
		return fmt.Errorf("creating assistant: %w", err)
	}

	m.mu.Lock()
	m.assistantID = assistantID
	m.mu.Unlock()

	m.logger.Info("assistant created", "assistant_id", assistantID, "model", m.model)
	return nil
}

// UpdatePersona resubmits the current persona to the existing assistant.
// Failures are logged only; the previous configuration stays in effect.
func (m *Manager) UpdatePersona(ctx context.Context) {
	m.mu.Lock()
	assistantID := m.assistantID
	m.mu.Unlock()

	if assistantID == "" {
		m.logger.Warn("persona update skipped, assistant not initialized")
		return
	}

	if err := m.backend.UpdateAssistant(ctx, assistantID, m.assistantConfig()); err != nil {
		m.logger.Error("updating assistant persona", "assistant_id", assistantID, "error", err)
		return
	}

	m.logger.Info("assistant persona updated", "assistant_id", assistantID)
}

// assistantConfig builds the AssistantConfig from the current persona.
func (m *Manager) assistantConfig() AssistantConfig {
	return AssistantConfig{
		Model:        m.model,
		Name:         m.name,
		Instructions: m.personas.Current(),
	}
}

// SendMessage runs the full pipeline for one user message: resolve or create
// the user's thread, append the message, start a run, poll until the run is
// terminal, and extract the reply text.
//
// Backend failures never propagate as errors; they degrade to an apologetic
// Reply. When the pipeline fails after the thread mapping was created, the
// mapping is kept but the returned ThreadID is nil, matching the service's
// long-standing behavior.
func (m *Manager) SendMessage(ctx context.Context, userID, text string) *Reply {
	requestID := uuid.New().String()
	log := m.logger.With("request_id", requestID, "user_id", userID)

	m.mu.Lock()
	assistantID := m.assistantID
	m.mu.Unlock()

	threadID, err := m.resolveThread(ctx, userID)
	if err != nil {
		log.Error("resolving thread", "error", err)
		return &Reply{Text: replyErrorPrefix + err.Error()}
	}
	log = log.With("thread_id", threadID)

	if err := m.backend.AddUserMessage(ctx, threadID, text); err != nil {
		log.Error("appending message", "error", err)
		return &Reply{Text: replyErrorPrefix + err.Error()}
	}

	runID, err := m.backend.CreateRun(ctx, threadID, assistantID)
	if err != nil {
		log.Error("starting run", "error", err)
		return &Reply{Text: replyErrorPrefix + err.Error()}
	}

	status, err := m.waitForRun(ctx, threadID, runID)
	if err != nil {
		log.Error("polling run", "run_id", runID, "error", err)
		return &Reply{Text: replyErrorPrefix + err.Error()}
	}

	if status != RunStatusCompleted {
		log.Error("run did not complete", "run_id", runID, "status", status)
		return &Reply{Text: replyRunFailed, ThreadID: &threadID}
	}

	replyText, ok, err := m.backend.LatestAssistantMessage(ctx, threadID)
	if err != nil {
		log.Error("fetching reply", "error", err)
		return &Reply{Text: replyErrorPrefix + err.Error()}
	}
	if !ok {
		replyText = replyNoResponse
	}

	log.Info("message processed", "run_id", runID)
	return &Reply{Text: replyText, ThreadID: &threadID}
}

// resolveThread returns the user's thread ID, creating one if absent.
// Concurrent calls for the same new user share a single backend creation:
// the first caller creates, the rest wait on the pending entry.
func (m *Manager) resolveThread(ctx context.Context, userID string) (string, error) {
	m.mu.Lock()
	if threadID, ok := m.threads[userID]; ok {
		m.mu.Unlock()
		return threadID, nil
	}
	if p, ok := m.pending[userID]; ok {
		m.mu.Unlock()
		select {
		case <-p.done:
			return p.threadID, p.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	p := &pendingThread{done: make(chan struct{})}
	m.pending[userID] = p
	m.mu.Unlock()

	threadID, err := m.backend.CreateThread(ctx)

	m.mu.Lock()
	delete(m.pending, userID)
	if err == nil {
		m.threads[userID] = threadID
		m.logger.Info("created thread for user", "user_id", userID, "thread_id", threadID)
	}
	m.mu.Unlock()

	p.threadID, p.err = threadID, err
	close(p.done)

	return threadID, err
}

// waitForRun polls the run status until it reaches a terminal state or the
// attempt budget is exhausted. The wait happens before each fetch, so the
// first status check lands after one interval. A timed-out run is returned
// with its last observed (non-terminal) status, not as an error.
func (m *Manager) waitForRun(ctx context.Context, threadID, runID string) (string, error) {
	timer := time.NewTimer(m.pollWait)
	defer timer.Stop()

	var status string
	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}

		var err error
		status, err = m.backend.RunStatus(ctx, threadID, runID)
		if err != nil {
			return "", err
		}

		switch status {
		case RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
			return status, nil
		}

		timer.Reset(m.pollWait)
	}

	m.logger.Error("run timed out", "thread_id", threadID, "run_id", runID, "attempts", m.maxAttempts)
	return status, nil
}

// ResetThread removes the user's thread mapping. The backend thread itself is
// abandoned, not deleted. A user without a thread is a no-op.
func (m *Manager) ResetThread(userID string) {
	m.mu.Lock()
	threadID, ok := m.threads[userID]
	if ok {
		delete(m.threads, userID)
	}
	m.mu.Unlock()

	if ok {
		m.logger.Info("reset thread for user", "user_id", userID, "thread_id", threadID)
	}
}
