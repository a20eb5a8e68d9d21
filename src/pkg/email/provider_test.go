package email

import "testing"

func TestSendMessageDisabled(t *testing.T) {
	sendEmails := false
	e := SendMessage(ProviderMailgun, &sendEmails, "reports@example.com", []string{"owner@example.com"}, "subject", "text", "<p>html</p>", nil)
	if e != nil {
		t.Fatalf("disabled send should be a no-op, got %v", e)
	}
}

func TestSendMessageNilGate(t *testing.T) {
	e := SendMessage(ProviderSES, nil, "reports@example.com", []string{"owner@example.com"}, "subject", "text", "<p>html</p>", nil)
	if e != nil {
		t.Fatalf("nil gate should behave like disabled, got %v", e)
	}
}

func TestSendMessageUnknownProvider(t *testing.T) {
	sendEmails := true
	e := SendMessage(Provider("pigeon"), &sendEmails, "reports@example.com", []string{"owner@example.com"}, "subject", "text", "<p>html</p>", nil)
	if e == nil {
		t.Fatal("expected an error for an unknown provider")
	}
}
