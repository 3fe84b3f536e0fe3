package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestTelegramSendSuccess(t *testing.T) {
	var gotPath, gotChatID, gotText string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, want form encoding", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		gotChatID = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewTelegramNotifierWithAPIBase(server.URL, "bot-123", "chat-456", server.Client(), zerolog.Nop())
	if err := n.Send(context.Background(), "SPY dropped 20.0%\n"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotPath != "/botbot-123/sendMessage" {
		t.Errorf("path = %q, want bot id embedded in URL path", gotPath)
	}
	if gotChatID != "chat-456" {
		t.Errorf("chat_id = %q, want chat-456", gotChatID)
	}
	if gotText != "SPY dropped 20.0%\n" {
		t.Errorf("text = %q, want the alert message", gotText)
	}
}

func TestTelegramSendNon200(t *testing.T) {
	statuses := []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError}
	for _, status := range statuses {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		n := NewTelegramNotifierWithAPIBase(server.URL, "bot", "chat", server.Client(), zerolog.Nop())
		if err := n.Send(context.Background(), "message"); err == nil {
			t.Errorf("Send() with status %d = nil, want error", status)
		}
		server.Close()
	}
}

func TestTelegramSendTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	n := NewTelegramNotifierWithAPIBase(server.URL, "bot", "chat", nil, zerolog.Nop())
	if err := n.Send(context.Background(), "message"); err == nil {
		t.Fatal("Send() against a closed server = nil, want error")
	}
}

func TestTelegramSendContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := NewTelegramNotifierWithAPIBase(server.URL, "bot", "chat", server.Client(), zerolog.Nop())
	if err := n.Send(ctx, "message"); err == nil {
		t.Fatal("Send() with cancelled context = nil, want error")
	}
}
