package notifier

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/boardwatch/internal/config"
	"github.com/amishk599/boardwatch/internal/model"
)

func emailConfig(port int) config.EmailConfig {
	return config.EmailConfig{
		Host:     "127.0.0.1",
		Port:     port,
		Username: "bot@example.org",
		Password: "secret",
		FromName: "Board Watch",
		From:     "bot@example.org",
		To:       []string{"a@example.org", "b@example.org"},
		Timeout:  2 * time.Second,
	}
}

func TestEmailNotifier_BuildMessage(t *testing.T) {
	e := NewEmailNotifier("Board", emailConfig(587), discardLogger())
	d := BuildDigest("Board", []model.Posting{samplePosting("Research Professor", "1")})

	msg, err := e.buildMessage(d)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "Subject: [Board] 1 new posting")
	assert.Contains(t, raw, "a@example.org")
	assert.Contains(t, raw, "b@example.org")
	assert.Contains(t, raw, "Board Watch")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "multipart/alternative")
}

func TestEmailNotifier_InvalidRecipient(t *testing.T) {
	cfg := emailConfig(587)
	cfg.To = []string{"not an address"}
	e := NewEmailNotifier("Board", cfg, discardLogger())

	_, err := e.buildMessage(BuildDigest("Board", nil))
	assert.Error(t, err)
}

func TestEmailNotifier_EmptyPostingsSendsNothing(t *testing.T) {
	// Port 1 is never dialed for an empty digest.
	e := NewEmailNotifier("Board", emailConfig(1), discardLogger())
	assert.NoError(t, e.Notify(context.Background(), nil))
}

func TestEmailNotifier_UnreachableServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	e := NewEmailNotifier("Board", emailConfig(port), discardLogger())
	err = e.Notify(context.Background(), []model.Posting{samplePosting("x", "1")})

	var notifyErr *model.NotifyError
	require.True(t, errors.As(err, &notifyErr), "expected NotifyError, got %v", err)
	assert.Equal(t, "email", notifyErr.Transport)
}
