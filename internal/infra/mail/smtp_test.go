package mail

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/config"
)

func TestSMTPSenderSend(t *testing.T) {
	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  []byte
	)

	sender := NewSMTPSender(config.SMTPSettings{
		Host: "smtp.example.com",
		Port: 587,
		From: "no-reply@memematch.example.com",
	}, zaptest.NewLogger(t))
	sender.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	err := sender.Send(context.Background(), "user@example.com", "Activate your account", "<p>hi</p>")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Fatalf("unexpected addr %q", gotAddr)
	}
	if gotFrom != "no-reply@memematch.example.com" {
		t.Fatalf("unexpected from %q", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "user@example.com" {
		t.Fatalf("unexpected recipients %v", gotTo)
	}

	msg := string(gotMsg)
	if !strings.Contains(msg, "Subject: Activate your account\r\n") {
		t.Fatalf("missing subject header in %q", msg)
	}
	if !strings.Contains(msg, "Content-Type: text/html") {
		t.Fatalf("missing content type header in %q", msg)
	}
	if !strings.Contains(msg, "<p>hi</p>") {
		t.Fatalf("missing body in %q", msg)
	}
}

func TestSMTPSenderRequiresRecipient(t *testing.T) {
	sender := NewSMTPSender(config.SMTPSettings{Host: "localhost", Port: 25}, zaptest.NewLogger(t))
	sender.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send should not be called")
		return nil
	}

	if err := sender.Send(context.Background(), "  ", "subject", "body"); err == nil {
		t.Fatal("expected error for empty recipient")
	}
}

func TestActivationEmail(t *testing.T) {
	body, err := ActivationEmail("meme_lord", "123456", "10 minutes")
	if err != nil {
		t.Fatalf("ActivationEmail returned error: %v", err)
	}

	if !strings.Contains(body, "meme_lord") {
		t.Fatalf("missing username in %q", body)
	}
	if !strings.Contains(body, "123456") {
		t.Fatalf("missing code in %q", body)
	}
	if !strings.Contains(body, "10 minutes") {
		t.Fatalf("missing expiry in %q", body)
	}
}

func TestActivationEmailEscapesUsername(t *testing.T) {
	body, err := ActivationEmail("<script>alert(1)</script>", "123456", "10 minutes")
	if err != nil {
		t.Fatalf("ActivationEmail returned error: %v", err)
	}

	if strings.Contains(body, "<script>") {
		t.Fatalf("username not escaped in %q", body)
	}
}
