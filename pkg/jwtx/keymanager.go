package jwtx

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/aussiebroadwan/tillauth/pkg/cryptox"
)

// Supported JWT signing algorithms.
const (
	AlgorithmEdDSA = "EdDSA"
	AlgorithmES256 = "ES256"
)

// KeyManager owns the signing keys of one instance and the KeySet used to
// verify and publish them.
type KeyManager struct {
	KeySet   *KeySet
	Verifier Verifier

	algorithm string

	mu      sync.RWMutex
	signers []Signer
}

// KeyManagerOptions configures an ephemeral KeyManager.
type KeyManagerOptions struct {
	// Algorithm is EdDSA (default) or ES256.
	Algorithm string

	// Issuer is both stamped on and required from tokens.
	Issuer string

	// NumKeys is clamped to [1, 10], 0 means 3.
	NumKeys int
}

// NewEphemeralKeyManager generates in-memory keys. Every token becomes
// invalid when the process restarts.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}
	alg := normalizeAlgorithm(opts.Algorithm)

	km := newKeyManager(alg, opts.Issuer)
	for i := range clampNumKeys(opts.NumKeys) {
		_, signer, err := generateSigner(alg)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate signer %d: %w", i+1, err)
		}
		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
	}

	return km, nil
}

func newKeyManager(alg, issuer string) *KeyManager {
	keys := NewKeySet()
	return &KeyManager{
		KeySet:    keys,
		Verifier:  NewVerifier(keys, issuer),
		algorithm: alg,
	}
}

// Algorithm returns the algorithm used for new signatures.
func (km *KeyManager) Algorithm() string { return km.algorithm }

// IsReady reports whether any key is loaded.
func (km *KeyManager) IsReady() bool { return km.KeySet.IsReady() }

// Sign signs claims with a randomly selected active key.
func (km *KeyManager) Sign(claims Claims) (string, error) {
	signer := km.GetSigner()
	if signer == nil {
		return "", fmt.Errorf("jwtx: no active signing key")
	}
	return signer.Sign(claims)
}

// GetSigner returns a random active signer, or nil if there is none.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	default:
		return km.signers[rand.IntN(len(km.signers))]
	}
}

// NumSigners returns the number of active signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// AddSigner makes signer active for signing and verification.
func (km *KeyManager) AddSigner(signer Signer) error {
	km.mu.Lock()
	defer km.mu.Unlock()

	if err := km.KeySet.AddSigner(signer); err != nil {
		return fmt.Errorf("jwtx: failed to add signer to keyset: %w", err)
	}
	km.signers = append(km.signers, signer)
	return nil
}

func normalizeAlgorithm(alg string) string {
	if alg == "" {
		return AlgorithmEdDSA
	}
	return alg
}

func clampNumKeys(n int) int {
	switch {
	case n <= 0:
		return 3
	case n > 10:
		return 10
	default:
		return n
	}
}

// generateSigner creates a fresh key and returns its PEM alongside the signer.
func generateSigner(alg string) ([]byte, Signer, error) {
	kid, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, nil, err
	}
	kid = "tillauth-" + kid

	var pemData []byte
	switch alg {
	case AlgorithmEdDSA:
		pemData, err = cryptox.GenerateEd25519Key()
	case AlgorithmES256:
		pemData, err = cryptox.GenerateES256Key()
	default:
		return nil, nil, fmt.Errorf("unsupported algorithm %q (supported: EdDSA, ES256)", alg)
	}
	if err != nil {
		return nil, nil, err
	}

	signer, err := NewSigner(alg, kid, pemData)
	if err != nil {
		return nil, nil, err
	}
	return pemData, signer, nil
}
