package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestAuthFlag(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(mr.Addr())
	defer r.Close()

	ctx := context.Background()
	if !r.Healthy(ctx) {
		t.Fatalf("expected healthy redis")
	}

	flag := NewAuthFlag(r.Client, "")
	if set, err := flag.IsAuthenticated(ctx); err != nil || set {
		t.Fatalf("expected unset flag, got %v %v", set, err)
	}

	if err := flag.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := mr.Get(DefaultAuthKey); v != "true" {
		t.Errorf("expected stored value true, got %q", v)
	}

	again := NewAuthFlag(NewRedis(mr.Addr()).Client, DefaultAuthKey)
	if set, _ := again.IsAuthenticated(ctx); !set {
		t.Errorf("expected flag visible to a fresh client")
	}

	if err := flag.SetAuthenticated(ctx, false); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mr.Exists(DefaultAuthKey) {
		t.Errorf("expected key removed on clear")
	}
}

func TestHealthyNil(t *testing.T) {
	var r *Redis
	if r.Healthy(context.Background()) {
		t.Errorf("expected nil wrapper to be unhealthy")
	}
}
