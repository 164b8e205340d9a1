package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing host", Config{From: "a@example.com", To: []string{"b@example.com"}}},
		{"missing from", Config{Host: "smtp.example.com", To: []string{"b@example.com"}}},
		{"no recipients", Config{Host: "smtp.example.com", From: "a@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestNewDefaultPort(t *testing.T) {
	s, err := New(Config{
		Host: "smtp.example.com",
		From: "reports@example.com",
		To:   []string{"me@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, 587, s.cfg.Port)
}

func TestBuildMessage(t *testing.T) {
	s, err := New(Config{
		Host: "smtp.example.com",
		From: "reports@example.com",
		To:   []string{"me@example.com", "you@example.com"},
	})
	require.NoError(t, err)

	msg, err := s.buildMessage("Minty Fresh Weekly - 02-15-16", []byte("<html><body>report</body></html>"))
	require.NoError(t, err)
	body := string(msg)

	assert.Contains(t, body, "From: reports@example.com\r\n")
	assert.Contains(t, body, "To: me@example.com, you@example.com\r\n")
	assert.Contains(t, body, "Subject: Minty Fresh Weekly - 02-15-16\r\n")
	assert.Contains(t, body, "Content-Type: multipart/alternative")
	assert.Contains(t, body, "Content-Type: text/html; charset=utf-8")
	assert.Contains(t, body, "Content-Type: text/plain; charset=utf-8")
	assert.Contains(t, body, "<html><body>report</body></html>")
}
