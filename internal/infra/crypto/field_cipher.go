// Package crypto implements the symmetric cipher used to protect a
// single sensitive field (the task description) at rest.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"

	"taskvault/config"
	"taskvault/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	// ivSize is the length of the random IV generated per encryption
	// call. GCM is configured for this nonce size explicitly.
	ivSize = 16

	// tagSize is the length of the GCM authentication tag appended to
	// the encoding as its third segment.
	tagSize = 16

	encodedSegments = 3
)

var (
	// ErrCiphertextFormat reports stored values that do not parse as
	// hex(iv):hex(ciphertext):hex(tag). Decryption fails closed on it.
	ErrCiphertextFormat = errors.New("ciphertext is not in iv:ciphertext:tag hex format")

	// ErrDecryptionFailed reports an authentication failure: the
	// ciphertext was tampered with or encrypted under a different key.
	ErrDecryptionFailed = errors.New("ciphertext failed authentication")
)

// aesFieldCipher implements service.FieldCipher with AES-256-GCM.
type aesFieldCipher struct {
	aead cipher.AEAD
}

// NewAESFieldCipher builds the cipher from the process-wide secret in
// the configuration. Config validation already guarantees the key
// length, so an error here means the service was wired incorrectly.
func NewAESFieldCipher(cfg *config.Config) (service.FieldCipher, error) {
	return NewAESFieldCipherWithKey([]byte(cfg.SecretKey.Cipher))
}

// NewAESFieldCipherWithKey builds the cipher from a raw 32-byte key.
func NewAESFieldCipherWithKey(key []byte) (service.FieldCipher, error) {
	if len(key) != config.CipherKeyLength {
		return nil, errors.Errorf("cipher key must be exactly %d bytes, got %d", config.CipherKeyLength, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize AES block cipher")
	}

	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize GCM mode")
	}

	return &aesFieldCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random IV and returns the
// at-rest encoding hex(iv):hex(ciphertext):hex(tag).
func (c *aesFieldCipher) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", errors.Wrap(err, "failed to generate IV")
	}

	sealed := c.aead.Seal(nil, iv, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext) + ":" + hex.EncodeToString(tag), nil
}

// Decrypt parses the at-rest encoding and opens the ciphertext. Inputs
// that do not split into exactly three hex segments fail with
// ErrCiphertextFormat; authentication failures (tamper, wrong key)
// fail with ErrDecryptionFailed. Decryption never returns garbage.
func (c *aesFieldCipher) Decrypt(encoded string) (string, error) {
	parts := strings.Split(encoded, ":")
	if len(parts) != encodedSegments {
		return "", errors.Wrapf(ErrCiphertextFormat, "expected %d segments, got %d", encodedSegments, len(parts))
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != ivSize {
		return "", errors.Wrap(ErrCiphertextFormat, "invalid IV segment")
	}

	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", errors.Wrap(ErrCiphertextFormat, "invalid ciphertext segment")
	}

	tag, err := hex.DecodeString(parts[2])
	if err != nil || len(tag) != tagSize {
		return "", errors.Wrap(ErrCiphertextFormat, "invalid tag segment")
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", errors.Wrap(ErrDecryptionFailed, "failed to open ciphertext")
	}

	return string(plaintext), nil
}
