package crypto

import (
	"errors"
	"testing"
)

func runExchange(t *testing.T, registeredPassword, loginPassword string) (serverProof string, client *SRPClient, err error) {
	t.Helper()

	const username = "alice"

	salt, verifier, err := ComputeVerifier(registeredPassword)
	if err != nil {
		t.Fatalf("ComputeVerifier error: %v", err)
	}

	server, err := NewSRPServer(username, salt, verifier)
	if err != nil {
		t.Fatalf("NewSRPServer error: %v", err)
	}

	client, err = NewSRPClient(username, loginPassword)
	if err != nil {
		t.Fatalf("NewSRPClient error: %v", err)
	}

	proof, err := client.ComputeProof(server.Salt(), server.PublicKey())
	if err != nil {
		t.Fatalf("ComputeProof error: %v", err)
	}

	serverProof, err = server.VerifyProof(client.PublicKey(), proof)
	return serverProof, client, err
}

func TestSRPExchange_CorrectPassword(t *testing.T) {
	serverProof, client, err := runExchange(t, "correcthorse123", "correcthorse123")
	if err != nil {
		t.Fatalf("expected exchange to succeed, got %v", err)
	}

	if !client.VerifyServerProof(serverProof) {
		t.Fatalf("expected server proof to validate on the client")
	}
}

func TestSRPExchange_WrongPassword(t *testing.T) {
	serverProof, _, err := runExchange(t, "correcthorse123", "wrongpassword")
	if !errors.Is(err, ErrInvalidProof) {
		t.Fatalf("expected ErrInvalidProof, got %v", err)
	}
	if serverProof != "" {
		t.Fatalf("no server proof may be issued for a failed exchange")
	}
}

func TestSRPServer_FreshEphemeralPerChallenge(t *testing.T) {
	salt, verifier, err := ComputeVerifier("correcthorse123")
	if err != nil {
		t.Fatalf("ComputeVerifier error: %v", err)
	}

	s1, err := NewSRPServer("alice", salt, verifier)
	if err != nil {
		t.Fatalf("NewSRPServer error: %v", err)
	}
	s2, err := NewSRPServer("alice", salt, verifier)
	if err != nil {
		t.Fatalf("NewSRPServer error: %v", err)
	}

	if s1.PublicKey() == s2.PublicKey() {
		t.Fatalf("expected a fresh server ephemeral per challenge")
	}
}

func TestSRPServer_MalformedClientValues(t *testing.T) {
	salt, verifier, err := ComputeVerifier("correcthorse123")
	if err != nil {
		t.Fatalf("ComputeVerifier error: %v", err)
	}

	server, err := NewSRPServer("alice", salt, verifier)
	if err != nil {
		t.Fatalf("NewSRPServer error: %v", err)
	}

	if _, err := server.VerifyProof("zz-not-hex", "00"); !errors.Is(err, ErrInvalidProof) {
		t.Fatalf("expected ErrInvalidProof for malformed public key, got %v", err)
	}
}

func TestBurnChallenge_DecoyCredentialsWellFormed(t *testing.T) {
	// The decoy must survive the full server-session setup, otherwise the
	// miss path would skip the ephemeral generation it exists to mimic.
	server, err := NewSRPServer("nobody", decoySalt, decoyVerifier)
	if err != nil {
		t.Fatalf("NewSRPServer with decoy credentials: %v", err)
	}
	if server.PublicKey() == "" {
		t.Fatal("expected a non-empty ephemeral from the decoy session")
	}

	BurnChallenge("nobody")
}

func TestComputeVerifier_FreshSaltPerCall(t *testing.T) {
	salt1, verifier1, err := ComputeVerifier("correcthorse123")
	if err != nil {
		t.Fatalf("ComputeVerifier error: %v", err)
	}
	salt2, verifier2, err := ComputeVerifier("correcthorse123")
	if err != nil {
		t.Fatalf("ComputeVerifier error: %v", err)
	}

	if salt1 == salt2 {
		t.Fatalf("expected a fresh salt per registration")
	}
	if verifier1 == verifier2 {
		t.Fatalf("expected different verifiers for different salts")
	}
}
