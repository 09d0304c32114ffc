package cryptography

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicKeyMultibase(t *testing.T) {
	pk, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	mb, err := PublicKeyMultibase(hex.EncodeToString(pk))
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, byte('z'), mb[0])

	back, err := PublicKeyFromMultibase(mb)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, pk, back)
}

func TestPublicKeyMultibaseRejectsShortKeys(t *testing.T) {
	_, err := PublicKeyMultibase("a1a1")
	assert.Error(t, err)

	_, err = EncodeMultibase([]byte{1, 2})
	assert.Error(t, err)
}
