package port

import "io"

// SignatureVerifier computes a content digest over a byte stream. Sum renders
// the digest as lowercase hex. Implementations are registered once at startup
// and resolved by name.
type SignatureVerifier interface {
	io.Writer
	Sum() string
	Name() string
}

// VerifierFactory returns a fresh verifier per stream
type VerifierFactory func() SignatureVerifier
