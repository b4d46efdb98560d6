package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// MinSigningKeySize is the smallest RSA key accepted for signing tokens.
const MinSigningKeySize = 2048

// GenerateSigningKey creates an RSA key pair for signing development tokens.
func GenerateSigningKey(keySize int) (*rsa.PrivateKey, error) {
	if keySize < MinSigningKeySize {
		return nil, fmt.Errorf("key size must be at least %d bits, got %d", MinSigningKeySize, keySize)
	}
	privateKey, err := rsa.GenerateKey(rand.Reader, keySize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}
	return privateKey, nil
}

// SavePrivateKeyToFile writes privateKey as a PKCS#1 PEM file readable only by the owner.
func SavePrivateKeyToFile(privateKey *rsa.PrivateKey, filename string) error {
	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}
	if err := os.WriteFile(filepath.Clean(filename), pem.EncodeToMemory(block), 0o600); err != nil {
		return fmt.Errorf("failed to write private key file: %w", err)
	}
	return nil
}

// SavePublicKeyToFile writes publicKey as a PKIX PEM file, the format expected by auth.public_key_path.
func SavePublicKeyToFile(publicKey *rsa.PublicKey, filename string) error {
	der, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return fmt.Errorf("failed to marshal public key: %w", err)
	}
	block := &pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: der,
	}
	if err := os.WriteFile(filepath.Clean(filename), pem.EncodeToMemory(block), 0o644); err != nil {
		return fmt.Errorf("failed to write public key file: %w", err)
	}
	return nil
}

// ReadPrivateKey reads an RSA private key in PKCS#1 or PKCS#8 PEM format.
func ReadPrivateKey(privateKeyPath string) (*rsa.PrivateKey, error) {
	privKeyPEM, err := os.ReadFile(filepath.Clean(privateKeyPath))
	if err != nil {
		return nil, fmt.Errorf("unable to read private key file: %w", err)
	}

	block, _ := pem.Decode(privKeyPEM)
	if block == nil {
		return nil, fmt.Errorf("failed to parse PEM block containing the private key")
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return privateKey, nil
	}

	privateKeyInterface, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key in either PKCS#1 or PKCS#8 format: %w", err)
	}

	privateKey, ok := privateKeyInterface.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not of type RSA")
	}
	return privateKey, nil
}
