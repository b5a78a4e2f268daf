package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KichuProject/Srs-Proj/internal/validation"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		want     bool
		invalid  bool
	}{
		{"exact match", "kichu@gmail.com", "kichuu", true, false},
		{"wrong password", "kichu@gmail.com", "kichu1", false, false},
		{"case differs", "Kichu@gmail.com", "kichuu", false, false},
		{"malformed email", "kichu", "kichuu", false, true},
		{"short password", "kichu@gmail.com", "abc", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := &MemoryFlag{}
			a := NewAuthenticator(flags, nil)

			ok, err := a.Login(ctx, tt.email, tt.password)
			var ve *validation.ValidationError
			if tt.invalid != errors.As(err, &ve) {
				t.Fatalf("unexpected error %v", err)
			}
			if ok != tt.want {
				t.Errorf("Login = %v, want %v", ok, tt.want)
			}
			set, _ := a.IsAuthenticated(ctx)
			if set != tt.want {
				t.Errorf("flag = %v, want %v", set, tt.want)
			}
		})
	}
}

func TestLogoutClearsFlag(t *testing.T) {
	ctx := context.Background()
	a := NewAuthenticator(&MemoryFlag{}, nil)

	if ok, err := a.Login(ctx, "kichu@gmail.com", "kichuu"); !ok || err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := a.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if set, _ := a.IsAuthenticated(ctx); set {
		t.Errorf("expected flag cleared")
	}
}

func TestFailedLoginKeepsExistingFlag(t *testing.T) {
	ctx := context.Background()
	a := NewAuthenticator(&MemoryFlag{}, nil)
	_, _ = a.Login(ctx, "kichu@gmail.com", "kichuu")

	if ok, _ := a.Login(ctx, "kichu@gmail.com", "wrong!"); ok {
		t.Fatalf("expected denial")
	}
	if set, _ := a.IsAuthenticated(ctx); !set {
		t.Errorf("expected flag to stay set after a denied attempt")
	}
}

func TestIssueAndParse(t *testing.T) {
	tok, err := Issue("kichu@gmail.com", "operator", "desk", "secret", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := Parse(tok.AccessToken, "secret", "desk")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "kichu@gmail.com" || claims.Role != "operator" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if _, err := Parse(tok.AccessToken, "other", "desk"); err == nil {
		t.Errorf("expected wrong key to fail")
	}
	if _, err := Parse(tok.AccessToken, "secret", "elsewhere"); err == nil {
		t.Errorf("expected issuer mismatch")
	}
}
