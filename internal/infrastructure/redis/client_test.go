package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, "redis://"+s.Addr())
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := client.Set(ctx, "healthcheck", "ok", 0).Err(); err != nil {
		t.Fatalf("set through client failed: %v", err)
	}
	if got := s.Dump(); got == "" {
		t.Fatal("expected key to reach the server")
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	if _, err := NewClient(context.Background(), "://bad-url"); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestNewClientUnreachableServer(t *testing.T) {
	s := miniredis.RunT(t)
	url := "redis://" + s.Addr()
	s.Close()

	if _, err := NewClient(context.Background(), url); err == nil {
		t.Fatal("expected ping error when server is down")
	}
}
