package ticket

import (
	"crypto/rand"
	"testing"

	"github.com/anongap/anongap/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randSecret(t *testing.T) []byte {
	t.Helper()
	b := make([]byte, SecretSize)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func TestDerivePublicID_Deterministic(t *testing.T) {
	secret := randSecret(t)
	appKey := []byte("app-secure-key")

	id1, err := DerivePublicID(secret, appKey)
	require.NoError(t, err)
	id2, err := DerivePublicID(secret, appKey)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "same inputs must derive the same identifier")
	assert.Len(t, id1, 32, "x-only public key is 32 bytes")
}

func TestDerivePublicID_AppKeyChangesIdentifier(t *testing.T) {
	secret := randSecret(t)

	plain, err := DerivePublicID(secret, nil)
	require.NoError(t, err)
	mixed, err := DerivePublicID(secret, []byte("app-secure-key"))
	require.NoError(t, err)

	assert.NotEqual(t, plain, mixed)
}

func TestDerivePublicID_InvalidSecretLength(t *testing.T) {
	for _, size := range []int{0, 16, 31, 33, 64} {
		_, err := DerivePublicID(make([]byte, size), nil)
		assert.ErrorIs(t, err, common.ErrInvalidSecretLength, "size %d", size)
	}
}

func TestDerivePublicID_ZeroScalar(t *testing.T) {
	_, err := DerivePublicID(make([]byte, SecretSize), nil)
	assert.ErrorIs(t, err, common.ErrInvalidSecretLength)
}

// Binding: distinct secrets must land on distinct identifiers. 10k random
// secrets is far below any birthday bound for a 256-bit group, so a single
// collision means the derivation is broken.
func TestDerivePublicID_NoCollisions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping collision corpus in short mode")
	}

	appKey := []byte("app-secure-key")
	seen := make(map[string]struct{}, 10000)

	for i := 0; i < 10000; i++ {
		id, err := DerivePublicID(randSecret(t), appKey)
		require.NoError(t, err)
		key := string(id)
		if _, dup := seen[key]; dup {
			t.Fatalf("collision after %d secrets", i)
		}
		seen[key] = struct{}{}
	}
}
