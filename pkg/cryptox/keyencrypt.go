package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	masterKeyOnce sync.Once
	masterKey     []byte
	masterKeyErr  error
	masterKeyPath string
)

// SetMasterKeyPath configures where the signing-key encryption key is read
// from. Without it AUTH_MASTER_KEY is used, and failing that an ephemeral key
// is generated (persisted signing keys will then not survive a restart).
func SetMasterKeyPath(path string) {
	masterKeyPath = path
}

func loadMasterKey() ([]byte, error) {
	var material []byte

	switch {
	case masterKeyPath != "":
		data, err := os.ReadFile(masterKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read master key file: %w", err)
		}
		material = data
	case os.Getenv("AUTH_MASTER_KEY") != "":
		material = []byte(os.Getenv("AUTH_MASTER_KEY"))
	default:
		material = make([]byte, 32)
		if _, err := rand.Read(material); err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral master key: %w", err)
		}
	}

	sum := sha256.Sum256(material)
	return sum[:], nil
}

func masterAEAD() (cipher.AEAD, error) {
	masterKeyOnce.Do(func() {
		masterKey, masterKeyErr = loadMasterKey()
	})
	if masterKeyErr != nil {
		return nil, masterKeyErr
	}

	block, err := aes.NewCipher(masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// EncryptPrivateKey seals PEM key material with AES-256-GCM.
// Output layout: nonce || ciphertext || tag.
func EncryptPrivateKey(pemData []byte) ([]byte, error) {
	aead, err := masterAEAD()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, pemData, nil), nil
}

// DecryptPrivateKey opens data produced by EncryptPrivateKey.
func DecryptPrivateKey(sealed []byte) ([]byte, error) {
	aead, err := masterAEAD()
	if err != nil {
		return nil, err
	}

	n := aead.NonceSize()
	if len(sealed) < n {
		return nil, errors.New("ciphertext too short")
	}

	plain, err := aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plain, nil
}

// ResetMasterKeyForTesting forgets the loaded master key. Tests only.
func ResetMasterKeyForTesting() {
	masterKeyOnce = sync.Once{}
	masterKey = nil
	masterKeyErr = nil
}
