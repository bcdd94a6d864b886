package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
)

// Errors returned by the codec.
var (
	ErrEmptySecret         = errors.New("crypto: empty secret")
	ErrMalformedCiphertext = errors.New("crypto: malformed ciphertext")
)

// FieldCodec encrypts individual column values at the storage boundary with
// AES-256-GCM. Account titles use EncryptDeterministic so equal plaintexts
// produce equal ciphertexts; the database can then keep a UNIQUE index on the
// encrypted column and lookups by title stay a single indexed query. Memos use
// Encrypt with a random nonce.
type FieldCodec struct {
	aead   cipher.AEAD
	macKey []byte
}

// NewFieldCodec derives the encryption and nonce keys from the configured
// secret.
func NewFieldCodec(secret string) (*FieldCodec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	encKey := sha256.Sum256([]byte("enc:" + secret))
	macKey := sha256.Sum256([]byte("mac:" + secret))

	block, err := aes.NewCipher(encKey[:])
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	return &FieldCodec{aead: aead, macKey: macKey[:]}, nil
}

// Encrypt seals plaintext with a random nonce. Two calls with the same input
// produce different ciphertexts.
func (c *FieldCodec) Encrypt(plaintext string) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}

	return c.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// EncryptDeterministic seals plaintext with a nonce derived from the plaintext
// itself, so the same input always yields the same ciphertext. Safe here
// because each distinct plaintext gets a distinct nonce under the MAC key.
func (c *FieldCodec) EncryptDeterministic(plaintext string) []byte {
	mac := hmac.New(sha256.New, c.macKey)
	mac.Write([]byte(plaintext))
	nonce := mac.Sum(nil)[:c.aead.NonceSize()]

	return c.aead.Seal(append([]byte{}, nonce...), nonce, []byte(plaintext), nil)
}

// Decrypt opens a ciphertext produced by either Encrypt variant.
func (c *FieldCodec) Decrypt(data []byte) (string, error) {
	if len(data) < c.aead.NonceSize() {
		return "", ErrMalformedCiphertext
	}

	nonce, sealed := data[:c.aead.NonceSize()], data[c.aead.NonceSize():]

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}

	return string(plaintext), nil
}
