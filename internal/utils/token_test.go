package utils

import (
	"encoding/hex"
	"testing"
)

func TestNewOpaqueToken_LengthAndRandomness(t *testing.T) {
	t1, err := NewOpaqueToken()
	if err != nil {
		t.Fatalf("NewOpaqueToken error: %v", err)
	}
	t2, err := NewOpaqueToken()
	if err != nil {
		t.Fatalf("NewOpaqueToken error: %v", err)
	}

	raw, err := hex.DecodeString(t1)
	if err != nil {
		t.Fatalf("token is not valid hex: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("token entropy = %d bytes, want 32", len(raw))
	}
	if t1 == t2 {
		t.Fatalf("expected tokens to differ")
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid bearer", header: "Bearer abc123", want: "abc123"},
		{name: "trims surrounding spaces", header: "  Bearer abc123  ", want: "abc123"},
		{name: "missing token", header: "Bearer", wantErr: true},
		{name: "empty header", header: "", wantErr: true},
		{name: "empty token part", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got token %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("token = %q, want %q", got, tt.want)
			}
		})
	}
}
