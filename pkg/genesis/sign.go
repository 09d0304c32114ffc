package genesis

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"

	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
	"github.com/tcfw/ccgenesis/pkg/tx"
	"golang.org/x/crypto/sha3"
)

// SigningBytes is the JSON form of the block without its signature.
func (b *Block) SigningBytes() ([]byte, error) {
	c := *b
	c.Signature = ""

	d, err := json.Marshal(&c)
	if err != nil {
		return nil, errors.Wrap(err, "encoding block signing bytes")
	}

	return d, nil
}

func (b *Block) digest() (multihash.Multihash, []byte, error) {
	d, err := b.SigningBytes()
	if err != nil {
		return nil, nil, err
	}

	return tx.Digest(d)
}

func (b *Block) Sign(sk ed25519.PrivateKey) error {
	_, d, err := b.digest()
	if err != nil {
		return err
	}

	b.Signature = hex.EncodeToString(ed25519.Sign(sk, d))

	return nil
}

// PayloadHash hashes the concatenated signatures of txs in order.
func PayloadHash(txs []*tx.Tx) (string, error) {
	h := sha3.New256()

	for i, t := range txs {
		sig, err := hex.DecodeString(t.Signature)
		if err != nil {
			return "", errors.Wrapf(tx.ErrBadSignature, "tx %d signature is not hex", i)
		}
		h.Write(sig)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
