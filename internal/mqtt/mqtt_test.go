package mqtt

import (
	"strings"
	"testing"
	"time"
)

func TestPublishBadBroker(t *testing.T) {
	// Connecting to a non-existent broker should return a connect error.
	err := Publish(Options{
		Broker:   "tcp://127.0.0.1:19999",
		ClientID: "test-client",
		Topic:    "genicons/runs",
		Timeout:  2 * time.Second,
	}, []byte("{}"))
	if err == nil {
		t.Fatal("expected error for unreachable broker")
	}
}

func TestPublishBadScheme(t *testing.T) {
	// A completely invalid broker URL should fail.
	err := Publish(Options{Broker: "not-a-url", ClientID: "test-client", Topic: "t"}, []byte("{}"))
	if err == nil {
		t.Fatal("expected error for invalid broker URL")
	}
}

func TestPublishEmptyTopic(t *testing.T) {
	err := Publish(Options{Broker: "tcp://127.0.0.1:19999"}, nil)
	if err == nil || !strings.Contains(err.Error(), "empty topic") {
		t.Fatalf("err = %v, want empty topic error", err)
	}
}
