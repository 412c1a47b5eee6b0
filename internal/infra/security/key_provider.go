package security

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrSigningKeyUnavailable = errors.New("signing key not available")
	ErrKeyNotFound           = errors.New("key not found")
)

// KeyProvider defines the interface for providing cryptographic keys.
type KeyProvider interface {
	GetSigningKey() (*rsa.PrivateKey, error)
	GetVerificationKey(kid string) (*rsa.PublicKey, error)
}

// DirKeyProvider loads PEM keys from a directory. The file name without
// extension is the kid. The first private key found becomes the signing key.
type DirKeyProvider struct {
	keys       map[string]*rsa.PublicKey
	signingKey *rsa.PrivateKey
	signingKID string
}

// NewDirKeyProvider reads every PEM file in keyDir. When requireSigning is set the
// directory must contain at least one private key.
func NewDirKeyProvider(keyDir string, requireSigning bool) (*DirKeyProvider, error) {
	files, err := os.ReadDir(keyDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read key directory: %w", err)
	}

	provider := &DirKeyProvider{keys: make(map[string]*rsa.PublicKey)}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".pem") {
			continue
		}

		path := filepath.Join(keyDir, file.Name())
		keyData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
		}

		kid := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
		if err := provider.add(kid, keyData); err != nil {
			return nil, fmt.Errorf("key file %s: %w", path, err)
		}
	}

	if requireSigning && provider.signingKey == nil {
		return nil, errors.New("no private key found for signing")
	}
	if len(provider.keys) == 0 {
		return nil, fmt.Errorf("no keys found in %s", keyDir)
	}

	return provider, nil
}

// NewStaticKeyProvider wraps a single in-memory key pair.
func NewStaticKeyProvider(kid string, key *rsa.PrivateKey) *DirKeyProvider {
	return &DirKeyProvider{
		keys:       map[string]*rsa.PublicKey{kid: &key.PublicKey},
		signingKey: key,
		signingKID: kid,
	}
}

func (p *DirKeyProvider) add(kid string, keyData []byte) error {
	block, _ := pem.Decode(keyData)
	if block == nil {
		return errors.New("failed to decode PEM block")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		p.addPrivate(kid, key)
		return nil
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		if rsaKey, ok := key.(*rsa.PrivateKey); ok {
			p.addPrivate(kid, rsaKey)
			return nil
		}
	}

	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		p.keys[kid] = key
		return nil
	}

	if key, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		if rsaKey, ok := key.(*rsa.PublicKey); ok {
			p.keys[kid] = rsaKey
			return nil
		}
	}

	return errors.New("unsupported key format")
}

func (p *DirKeyProvider) addPrivate(kid string, key *rsa.PrivateKey) {
	if p.signingKey == nil {
		p.signingKey = key
		p.signingKID = kid
	}
	p.keys[kid] = &key.PublicKey
}

// GetSigningKey returns the private key for signing credentials.
func (p *DirKeyProvider) GetSigningKey() (*rsa.PrivateKey, error) {
	if p.signingKey == nil {
		return nil, ErrSigningKeyUnavailable
	}
	return p.signingKey, nil
}

// SigningKID returns the kid of the signing key, or "" when verification-only.
func (p *DirKeyProvider) SigningKID() string {
	return p.signingKID
}

// GetVerificationKey returns the public key for verifying credentials.
func (p *DirKeyProvider) GetVerificationKey(kid string) (*rsa.PublicKey, error) {
	key, ok := p.keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, kid)
	}
	return key, nil
}

// ListVerificationKeys exposes every loaded public key for JWKS publication.
func (p *DirKeyProvider) ListVerificationKeys() map[string]*rsa.PublicKey {
	out := make(map[string]*rsa.PublicKey, len(p.keys))
	for kid, key := range p.keys {
		out[kid] = key
	}
	return out
}

// NewKeyProvider selects a provider for the environment. Only development
// deployments hold a private key; other environments verify only.
func NewKeyProvider(env, keyDir string) (*DirKeyProvider, error) {
	switch env {
	case "development", "test":
		return NewDirKeyProvider(keyDir, true)
	case "staging", "production":
		return NewDirKeyProvider(keyDir, false)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}
}
