package ticket

import (
	"crypto/sha256"

	"github.com/anongap/anongap/internal/common"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SecretSize is the length of a ticket secret in bytes: a scalar for the
// secp256k1 curve, and exactly one SHA-256 digest when an app key is mixed in.
const SecretSize = 32

// combineSecret mixes the per-conversation secret with the app-wide secure
// key and hashes the result down to a fixed 32 bytes. Without an app key the
// secret is used as-is. The same combined value serves as both the curve
// scalar for identity derivation and the AES-256 key for payload sealing, so
// any change here invalidates every stored conversation.
func combineSecret(secret, appKey []byte) []byte {
	if len(appKey) == 0 {
		out := make([]byte, len(secret))
		copy(out, secret)
		return out
	}
	h := sha256.New()
	h.Write(secret)
	h.Write(appKey)
	return h.Sum(nil)
}

// DerivePublicID derives the public conversation identifier for a secret:
// the combined scalar is multiplied onto the curve and the resulting point
// is serialized Schnorr-style as the 32-byte x-only public key.
//
// Identical (secret, appKey) always yield the identical identifier, which is
// what allows a conversation to be found later by recomputing the ID from a
// ticket instead of keeping a reverse index.
func DerivePublicID(secret, appKey []byte) ([]byte, error) {
	if len(secret) != SecretSize {
		return nil, common.ErrInvalidSecretLength
	}

	combined := combineSecret(secret, appKey)

	var buf [SecretSize]byte
	copy(buf[:], combined)

	var scalar secp256k1.ModNScalar
	scalar.SetBytes(&buf)
	if scalar.IsZero() {
		// zero is not a valid private scalar
		return nil, common.ErrInvalidSecretLength
	}

	priv := secp256k1.NewPrivateKey(&scalar)
	compressed := priv.PubKey().SerializeCompressed()

	// drop the parity byte: x-only, per the BIP-340 convention
	return compressed[1:], nil
}
