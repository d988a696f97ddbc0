// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tadglines/go-pkgs/crypto/srp"
)

// srpGroup selects the RFC 5054 3072-bit parameters. Like the KDF
// parameters, the group is part of the client/server compatibility
// contract and is not configurable. The group size also bounds the wire
// size of verifiers and ephemerals: a 3072-bit verifier is 768 hex
// characters, which fits the 1000-byte cap on SRP fields.
const srpGroup = "rfc5054.3072"

// newSRP builds the shared SRP-6a context. The x-derivation runs the
// password through the PBKDF2 strengthening step first, so the single
// account salt serves both the strengthening and the SRP math, and an
// attacker who steals verifiers still pays the full PBKDF2 cost per guess.
func newSRP() (*srp.SRP, error) {
	s, err := srp.NewSRP(srpGroup, sha256.New, strengthenedX)
	if err != nil {
		return nil, fmt.Errorf("create srp context: %w", err)
	}

	s.SaltLength = saltSize

	return s, nil
}

// strengthenedX derives the SRP private value x from the raw salt bytes
// and the password. It mirrors DeriveAuthKey exactly: the hex form of the
// PBKDF2 output is what feeds the SRP computation on both sides.
func strengthenedX(salt, password []byte) []byte {
	k := &keyService{}
	return []byte(k.DeriveAuthKey(string(password), hex.EncodeToString(salt)))
}

// Fixed throwaway credentials for BurnChallenge, shaped like real ones so
// the ephemeral math costs the same.
var (
	decoySalt     = strings.Repeat("5a", saltSize)
	decoyVerifier = strings.Repeat("5a", 384)
)

// BurnChallenge runs the same ephemeral generation a real challenge does,
// against fixed throwaway credentials. The miss path of a username lookup
// calls it so that unknown and known usernames answer on the same timing
// profile.
func BurnChallenge(username string) {
	_, _ = NewSRPServer(username, decoySalt, decoyVerifier)
}

// ComputeVerifier generates a fresh salt and the SRP-6a verifier for the
// given password. It runs on the client at registration and on password
// change; the server only ever stores the result.
func ComputeVerifier(password string) (saltHex, verifierHex string, err error) {
	s, err := newSRP()
	if err != nil {
		return "", "", err
	}

	salt, verifier, err := s.ComputeVerifier([]byte(password))
	if err != nil {
		return "", "", fmt.Errorf("compute verifier: %w", err)
	}

	return hex.EncodeToString(salt), hex.EncodeToString(verifier), nil
}

// SRPServer holds the server half of one SRP-6a exchange, from challenge
// issuance to proof verification. Instances are single-use: a served
// challenge is consumed by the first VerifyProof call against it.
type SRPServer struct {
	session *srp.ServerSession
	salt    string
}

// NewSRPServer starts a server-side exchange for the stored credentials,
// generating a fresh ephemeral keypair from the verifier.
func NewSRPServer(username, saltHex, verifierHex string) (*SRPServer, error) {
	s, err := newSRP()
	if err != nil {
		return nil, err
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}

	verifier, err := hex.DecodeString(verifierHex)
	if err != nil {
		return nil, fmt.Errorf("decode verifier: %w", err)
	}

	return &SRPServer{
		session: s.NewServerSession([]byte(username), salt, verifier),
		salt:    saltHex,
	}, nil
}

// Salt returns the hex account salt the challenge was issued for.
func (s *SRPServer) Salt() string {
	return s.salt
}

// PublicKey returns the server ephemeral public value B, hex encoded.
func (s *SRPServer) PublicKey() string {
	return hex.EncodeToString(s.session.GetB())
}

// VerifyProof checks the client's proof against the stored verifier and,
// on success, returns the server proof the client must verify in turn.
// Any failure — malformed input, key agreement error, proof mismatch —
// comes back as [ErrInvalidProof].
func (s *SRPServer) VerifyProof(clientPublicHex, clientProofHex string) (string, error) {
	clientPublic, err := hex.DecodeString(clientPublicHex)
	if err != nil {
		return "", ErrInvalidProof
	}

	clientProof, err := hex.DecodeString(clientProofHex)
	if err != nil {
		return "", ErrInvalidProof
	}

	if _, err := s.session.ComputeKey(clientPublic); err != nil {
		return "", ErrInvalidProof
	}

	if !s.session.VerifyClientAuthenticator(clientProof) {
		return "", ErrInvalidProof
	}

	serverProof := s.session.ComputeAuthenticator(clientProof)

	return hex.EncodeToString(serverProof), nil
}

// SRPClient holds the client half of one SRP-6a exchange. It lives in the
// shared crypto package because the protocol client and the test suite
// both need it; the server never constructs one.
type SRPClient struct {
	session *srp.ClientSession
}

// NewSRPClient starts a client-side exchange for the given credentials.
func NewSRPClient(username, password string) (*SRPClient, error) {
	s, err := newSRP()
	if err != nil {
		return nil, err
	}

	return &SRPClient{
		session: s.NewClientSession([]byte(username), []byte(password)),
	}, nil
}

// PublicKey returns the client ephemeral public value A, hex encoded.
func (c *SRPClient) PublicKey() string {
	return hex.EncodeToString(c.session.GetA())
}

// ComputeProof derives the shared session key from the server's challenge
// and returns the client proof, hex encoded.
func (c *SRPClient) ComputeProof(saltHex, serverPublicHex string) (string, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}

	serverPublic, err := hex.DecodeString(serverPublicHex)
	if err != nil {
		return "", fmt.Errorf("decode server public key: %w", err)
	}

	if _, err := c.session.ComputeKey(salt, serverPublic); err != nil {
		return "", fmt.Errorf("compute session key: %w", err)
	}

	return hex.EncodeToString(c.session.ComputeAuthenticator()), nil
}

// VerifyServerProof checks the proof the server returned after accepting
// the client proof. A false result means the peer does not actually hold
// the verifier — a rogue server.
func (c *SRPClient) VerifyServerProof(serverProofHex string) bool {
	serverProof, err := hex.DecodeString(serverProofHex)
	if err != nil {
		return false
	}

	return c.session.VerifyServerAuthenticator(serverProof)
}
