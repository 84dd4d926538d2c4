package jwtx

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is anything that can sign our JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	PublicJWK() JWK
}

type keySigner struct {
	kid    string
	method jwt.SigningMethod
	key    crypto.Signer
	jwk    JWK
}

// NewSigner loads a PKCS8 PEM private key for the given algorithm.
func NewSigner(algorithm, kid string, pemKey []byte) (Signer, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM")
	}
	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("jwtx: expected PRIVATE KEY, got %q", block.Type)
	}

	priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse PKCS8: %w", err)
	}

	switch algorithm {
	case AlgorithmEdDSA:
		key, ok := priv.(ed25519.PrivateKey)
		if !ok {
			return nil, errors.New("jwtx: not an Ed25519 private key")
		}
		return &keySigner{
			kid:    kid,
			method: jwt.SigningMethodEdDSA,
			key:    key,
			jwk:    NewEd25519JWK(kid, AlgorithmEdDSA, key.Public().(ed25519.PublicKey)),
		}, nil

	case AlgorithmES256:
		key, ok := priv.(*ecdsa.PrivateKey)
		if !ok || key.Curve.Params().Name != "P-256" {
			return nil, errors.New("jwtx: not a P-256 private key")
		}
		return &keySigner{
			kid:    kid,
			method: jwt.SigningMethodES256,
			key:    key,
			jwk:    NewES256JWK(kid, AlgorithmES256, &key.PublicKey),
		}, nil

	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q", algorithm)
	}
}

func (s *keySigner) Alg() string    { return s.method.Alg() }
func (s *keySigner) KID() string    { return s.kid }
func (s *keySigner) PublicJWK() JWK { return s.jwk }

func (s *keySigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}
