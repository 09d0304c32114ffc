package cryptography

import (
	"crypto"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/multiformats/go-multibase"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

func DecodeMultibase(mb string) ([]byte, error) {
	_, d, err := multibase.Decode(mb)
	return d, err
}

func EncodeMultibase(publicKey crypto.PublicKey) (string, error) {
	var raw []byte

	switch t := publicKey.(type) {
	case ed25519.PublicKey:
		raw = []byte(t)
	default:
		return "", errors.Errorf("unsupported pk type: %T", t)

	}

	return multibase.Encode(multibase.Base58BTC, raw)
}

// PublicKeyMultibase renders a hex encoded sender key in base58btc multibase.
func PublicKeyMultibase(hexKey string) (string, error) {
	pk, err := tx.DecodePublicKey(hexKey)
	if err != nil {
		return "", err
	}

	return EncodeMultibase(pk)
}

// PublicKeyFromMultibase is the inverse of PublicKeyMultibase.
func PublicKeyFromMultibase(mb string) (ed25519.PublicKey, error) {
	d, err := DecodeMultibase(mb)
	if err != nil {
		return nil, errors.Wrap(err, "decoding multibase")
	}

	if len(d) != ed25519.PublicKeySize {
		return nil, errors.Errorf("public key is %d bytes", len(d))
	}

	return ed25519.PublicKey(d), nil
}
