package ticket

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"strings"

	"github.com/anongap/anongap/internal/common"
)

// blobDelimiter joins the Base64 nonce and ciphertext halves of a sealed blob.
const blobDelimiter = ":"

func newGCM(secret, appKey []byte) (cipher.AEAD, error) {
	key := combineSecret(secret, appKey)

	block, err := aes.NewCipher(key[:SecretSize])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-256-GCM under the key derived from the
// secret (combined with the app key exactly as in DerivePublicID). A fresh
// random 96-bit nonce is generated per call; the result is
// "base64(nonce):base64(ciphertext)".
func Seal(secret, appKey, plaintext []byte) (string, error) {
	if len(secret) != SecretSize {
		return "", common.ErrInvalidSecretLength
	}

	aead, err := newGCM(secret, appKey)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	return EncodeKey(nonce) + blobDelimiter + EncodeKey(ciphertext), nil
}

// Open decrypts a blob produced by Seal. It returns ErrMalformedBlob when
// the delimiter or Base64 structure is broken and ErrAuthenticationFailure
// when the authentication tag does not verify (tampered data or wrong key).
// Corrupted plaintext is never returned silently.
func Open(secret, appKey []byte, blob string) ([]byte, error) {
	if len(secret) != SecretSize {
		return nil, common.ErrInvalidSecretLength
	}

	parts := strings.SplitN(blob, blobDelimiter, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, common.ErrMalformedBlob
	}

	nonce, err := DecodeKey(parts[0])
	if err != nil {
		return nil, common.ErrMalformedBlob
	}
	ciphertext, err := DecodeKey(parts[1])
	if err != nil {
		return nil, common.ErrMalformedBlob
	}

	aead, err := newGCM(secret, appKey)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, common.ErrMalformedBlob
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrAuthenticationFailure
	}

	return plaintext, nil
}
