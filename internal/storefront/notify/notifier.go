// Package notify holds the transient user-visible notification: a single
// auto-expiring message slot the rendering layer polls.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Severity classifies a notification for styling at the presentation layer.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// DefaultLifetime is how long a notification stays visible before it expires.
const DefaultLifetime = 3 * time.Second

// Message is one visible notification.
type Message struct {
	Text     string
	Severity Severity
}

// Notifier keeps at most one visible message at a time; a new message
// supersedes the current one, and expiry is evaluated lazily against the
// injected clock on read.
type Notifier struct {
	logger   *zap.Logger
	clock    func() time.Time
	lifetime time.Duration

	mu        sync.Mutex
	current   Message
	expiresAt time.Time
}

// Option customises the Notifier.
type Option func(*Notifier)

// WithClock overrides the time source, used by tests.
func WithClock(clock func() time.Time) Option {
	return func(n *Notifier) {
		if clock != nil {
			n.clock = clock
		}
	}
}

// WithLifetime overrides the message lifetime.
func WithLifetime(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.lifetime = d
		}
	}
}

// New builds a notifier with the default three-second lifetime.
func New(logger *zap.Logger, opts ...Option) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Notifier{
		logger:   logger.Named("notify"),
		clock:    time.Now,
		lifetime: DefaultLifetime,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Publish replaces the visible message.
func (n *Notifier) Publish(text string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = Message{Text: text, Severity: severity}
	n.expiresAt = n.clock().Add(n.lifetime)
	n.logger.Debug("notification published", zap.String("severity", string(severity)), zap.String("text", text))
}

// Current returns the visible message, reporting false once it has expired.
func (n *Notifier) Current() (Message, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.expiresAt.IsZero() || !n.clock().Before(n.expiresAt) {
		return Message{}, false
	}
	return n.current, true
}
