// Package notification provides SMS delivery for booking events with
// template rendering and pluggable senders.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SMSSender is the interface for sending SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Message records a single outbound SMS and its delivery outcome.
type Message struct {
	ID         string            `json:"id"`
	Recipient  string            `json:"recipient"`
	Body       string            `json:"body"`
	TemplateID string            `json:"template_id,omitempty"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	SentAt     *time.Time        `json:"sent_at,omitempty"`
	Error      string            `json:"error,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
}

// Template defines a reusable SMS template.
type Template struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Body string `json:"body"`
}

// TemplateEngine manages SMS templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in booking
// templates pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{
		templates: make(map[string]*Template),
	}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:   "appointment-confirmed",
			Name: "Appointment Confirmed",
			Body: "Hi {{patient_name}}, your appointment at Link Opticians {{branch}} is booked for {{date}} at {{time}}. Reply or call {{branch_phone}} to reschedule.",
		},
		{
			ID:   "appointment-status",
			Name: "Appointment Status Updated",
			Body: "Hi {{patient_name}}, your Link Opticians appointment on {{date}} at {{time}} is now {{status}}.",
		},
		{
			ID:   "appointment-cancelled",
			Name: "Appointment Cancelled",
			Body: "Hi {{patient_name}}, your Link Opticians appointment on {{date}} at {{time}} has been cancelled. Call {{branch_phone}} to rebook.",
		},
		{
			ID:   "appointment-reminder",
			Name: "Appointment Reminder",
			Body: "Hi {{patient_name}}, this is a reminder of your Link Opticians appointment tomorrow at {{time}}, {{branch}}.",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by ID and performs {{key}} replacement using the
// supplied data map. Keys present in the template but absent from data are
// left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (string, error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("template %q not found", templateID)
	}

	body := t.Body
	for k, v := range data {
		body = strings.ReplaceAll(body, "{{"+k+"}}", v)
	}
	return body, nil
}

// SMSCall records a single call to SendSMS.
type SMSCall struct {
	To   string
	Body string
}

// MockSMSSender is a test double for SMSSender.
type MockSMSSender struct {
	mu         sync.Mutex
	calls      []SMSCall
	ShouldFail bool
	FailError  string
}

// SendSMS records the call and optionally returns an error.
func (m *MockSMSSender) SendSMS(_ context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, SMSCall{To: to, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded SMS calls.
func (m *MockSMSSender) Calls() []SMSCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SMSCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// LogSender logs messages instead of delivering them. Used when no SMS
// provider credentials are configured so development setups still show
// what would have been sent.
type LogSender struct {
	Logger zerolog.Logger
}

func (s *LogSender) SendSMS(_ context.Context, to, body string) error {
	s.Logger.Info().
		Str("to", to).
		Str("body", body).
		Msg("sms delivery skipped (sender not configured)")
	return nil
}

// Notifier renders templates and dispatches SMS messages, keeping an
// in-memory record of each attempt. Delivery failures are recorded and
// returned but callers are expected to log and continue; a failed SMS
// never unwinds the booking that triggered it.
type Notifier struct {
	sender    SMSSender
	templates *TemplateEngine
	mu        sync.RWMutex
	messages  map[string]*Message
}

func NewNotifier(sender SMSSender, tpl *TemplateEngine) *Notifier {
	return &Notifier{
		sender:    sender,
		templates: tpl,
		messages:  make(map[string]*Message),
	}
}

// Send dispatches a raw SMS, assigns an ID and timestamps, and records the
// outcome in-memory.
func (n *Notifier) Send(ctx context.Context, recipient, body string) (*Message, error) {
	msg := &Message{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Body:      body,
		Status:    "pending",
		CreatedAt: time.Now().UTC(),
	}

	sendErr := n.sender.SendSMS(ctx, recipient, body)
	if sendErr != nil {
		msg.Status = "failed"
		msg.Error = sendErr.Error()
	} else {
		msg.Status = "sent"
		sentAt := time.Now().UTC()
		msg.SentAt = &sentAt
	}

	n.mu.Lock()
	n.messages[msg.ID] = msg
	n.mu.Unlock()

	return msg, sendErr
}

// SendFromTemplate renders a template and sends the resulting message.
func (n *Notifier) SendFromTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*Message, error) {
	body, err := n.templates.Render(templateID, data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	msg, sendErr := n.Send(ctx, recipient, body)
	msg.TemplateID = templateID
	msg.Data = data
	return msg, sendErr
}

// Get retrieves a recorded message by ID.
func (n *Notifier) Get(id string) (*Message, error) {
	n.mu.RLock()
	msg, ok := n.messages[id]
	n.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("message %q not found", id)
	}
	return msg, nil
}

// Stats returns counts of recorded messages grouped by status.
func (n *Notifier) Stats() map[string]int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	stats := make(map[string]int)
	for _, msg := range n.messages {
		stats[msg.Status]++
	}
	return stats
}
