package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierLifecycle(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	n := New(nil, WithClock(func() time.Time { return now }))

	_, visible := n.Current()
	assert.False(t, visible, "a fresh notifier shows nothing")

	n.Publish("Added to cart!", SeverityInfo)
	msg, visible := n.Current()
	require.True(t, visible)
	assert.Equal(t, "Added to cart!", msg.Text)

	// A newer message supersedes the visible one.
	n.Publish("storage unavailable", SeverityError)
	msg, visible = n.Current()
	require.True(t, visible)
	assert.Equal(t, SeverityError, msg.Severity)

	// The message expires after its lifetime.
	now = now.Add(DefaultLifetime)
	_, visible = n.Current()
	assert.False(t, visible)
}

func TestNotifierCustomLifetime(t *testing.T) {
	now := time.Unix(0, 0)
	n := New(nil, WithClock(func() time.Time { return now }), WithLifetime(time.Second))

	n.Publish("short lived", SeverityInfo)
	now = now.Add(999 * time.Millisecond)
	_, visible := n.Current()
	assert.True(t, visible)

	now = now.Add(time.Millisecond)
	_, visible = n.Current()
	assert.False(t, visible)
}
