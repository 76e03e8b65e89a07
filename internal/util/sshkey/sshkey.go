package sshkey

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

// PublicKey is a parsed authorized key.
type PublicKey struct {
	// Authorized is the key in single-line authorized_keys format, without a trailing newline.
	Authorized string
	// Fingerprint is the legacy MD5 fingerprint (aa:bb:...), as reported by Hetzner Cloud.
	Fingerprint string
	Comment     string
	Type        string
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// LoadPublicKey reads and parses the public key at path.
func LoadPublicKey(path string) (*PublicKey, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	// #nosec G304
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	return ParsePublicKey(data)
}

// ParsePublicKey parses data in authorized_keys format.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	key, comment, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	authorized := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(key)))
	if comment != "" {
		authorized += " " + comment
	}

	return &PublicKey{
		Authorized:  authorized,
		Fingerprint: ssh.FingerprintLegacyMD5(key),
		Comment:     comment,
		Type:        key.Type(),
	}, nil
}

// KeyPair holds an RSA key pair in ready-to-use formats.
type KeyPair struct {
	// PrivateKey is the RSA private key in PEM-encoded PKCS#1 format.
	PrivateKey []byte
	// PublicKey is the public key in OpenSSH authorized_keys format.
	PublicKey []byte
}

// GenerateRSAKeyPair generates a new RSA key pair with the given bit size.
func GenerateRSAKeyPair(bits int) (*KeyPair, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA private key: %w", err)
	}

	if err := privateKey.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate RSA private key: %w", err)
	}

	privateKeyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})

	pub, err := ssh.NewPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}

	return &KeyPair{
		PrivateKey: privateKeyPEM,
		PublicKey:  ssh.MarshalAuthorizedKey(pub),
	}, nil
}

// WriteKeyPair writes the private key to privatePath (0600) and the public
// key to privatePath + ".pub" (0644). It returns the public key path.
func WriteKeyPair(kp *KeyPair, privatePath string) (string, error) {
	expanded, err := ExpandPath(privatePath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o700); err != nil {
		return "", fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(expanded, kp.PrivateKey, 0o600); err != nil {
		return "", fmt.Errorf("failed to write private key: %w", err)
	}
	pubPath := expanded + ".pub"
	// #nosec G306
	if err := os.WriteFile(pubPath, kp.PublicKey, 0o644); err != nil {
		return "", fmt.Errorf("failed to write public key: %w", err)
	}
	return pubPath, nil
}
