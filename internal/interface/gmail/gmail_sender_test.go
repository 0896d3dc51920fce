package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tago-service/internal/domain/entity"
	"tago-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type stubSettings struct {
	settings entity.EmailSettings
}

func (s *stubSettings) Get(ctx context.Context) (*entity.EmailSettings, error) {
	return &s.settings, nil
}

func (s *stubSettings) Save(ctx context.Context, settings entity.EmailSettings) error {
	s.settings = settings
	return nil
}

func newTestSender(t *testing.T, handler http.HandlerFunc) *GmailSender {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	service, err := gmail.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	settings := &stubSettings{settings: entity.EmailSettings{GmailAddress: "ops@tago.example", SenderName: "Tago Ops"}}
	return NewGmailSenderWithService(service, settings, "", logger.NewNopLogger())
}

func TestGmailSender_Send(t *testing.T) {
	var raw string
	sender := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/users/me/messages/send"), r.URL.Path)

		var msg gmail.Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		raw = msg.Raw

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg-1"}`))
	})

	result := sender.Send(context.Background(), "groups@et.example", "Reminder: Deposit Due - PNR ABC123", "Dear Team,\n\nBody")

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "msg-1", result.MessageID)

	decoded, err := base64.URLEncoding.DecodeString(raw)
	require.NoError(t, err)
	message := string(decoded)
	assert.Contains(t, message, "To: groups@et.example\r\n")
	assert.Contains(t, message, `From: "Tago Ops" <ops@tago.example>`)
	assert.Contains(t, message, "Subject: Reminder: Deposit Due - PNR ABC123\r\n")
	assert.Contains(t, message, "Dear Team,\r\n\r\nBody")
}

func TestGmailSender_SendRejectsInjectedHeaders(t *testing.T) {
	tests := []struct {
		name string
		to   string
	}{
		{"crlf bcc", "groups@et.example\r\nBcc: leak@evil.example"},
		{"bare lf", "groups@et.example\nSubject: spoofed"},
		{"not an address", "groups at et dot example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("no request expected")
			})

			result := sender.Send(context.Background(), tt.to, "subject", "body")

			assert.False(t, result.Success)
			assert.Contains(t, result.Message, "invalid recipient")
		})
	}
}

func TestToHeader(t *testing.T) {
	header, err := toHeader("groups@et.example, ET Sales <sales@et.example>")

	require.NoError(t, err)
	assert.Equal(t, `groups@et.example, "ET Sales" <sales@et.example>`, header)
}

func TestGmailSender_SendFailureIsReported(t *testing.T) {
	sender := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":400,"message":"invalid to header"}}`, http.StatusBadRequest)
	})

	result := sender.Send(context.Background(), "groups@et.example", "subject", "body")

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestGmailSender_SendWithoutRecipient(t *testing.T) {
	sender := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	result := sender.Send(context.Background(), " ", "subject", "body")

	assert.False(t, result.Success)
}

func TestGmailSender_Verify(t *testing.T) {
	sender := newTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/users/me/profile"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"emailAddress":"ops@tago.example"}`))
	})

	result := sender.Verify(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, "connected as ops@tago.example", result.Message)
}

func TestNoopSender(t *testing.T) {
	sender := NewNoopSender(logger.NewNopLogger())

	assert.False(t, sender.Send(context.Background(), "a@b.c", "s", "b").Success)
	assert.False(t, sender.Verify(context.Background()).Success)
}
