package genesis

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultJSON is the genesis document of the development network.
//
//go:embed devnet.json
var DefaultJSON []byte

// Default decodes the embedded development network genesis.
func Default() (*Block, error) {
	return Decode(bytes.NewReader(DefaultJSON))
}

func Decode(r io.Reader) (*Block, error) {
	b := &Block{}

	if err := json.NewDecoder(r).Decode(b); err != nil {
		return nil, errors.Wrap(err, "decoding genesis")
	}

	return b, nil
}

func LoadFile(path string) (*Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening genesis file")
	}
	defer f.Close()

	return Decode(f)
}

// EncodeMsgpack encodes the block in the compact base64 msgpack form
// accepted by the chain config.
func EncodeMsgpack(b *Block) (string, error) {
	d, err := msgpack.Marshal(b)
	if err != nil {
		return "", errors.Wrap(err, "marshaling genesis")
	}

	return base64.StdEncoding.EncodeToString(d), nil
}

func DecodeMsgpack(s string) (*Block, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "b64 decoding genesis")
	}

	b := &Block{}
	if err := msgpack.Unmarshal(raw, b); err != nil {
		return nil, errors.Wrap(err, "unmarshaling genesis")
	}

	for i, t := range b.TransactionInfo.TransactionInBlocks {
		if t.Transaction == nil {
			continue
		}
		if err := t.Transaction.CheckPayload(); err != nil {
			return nil, errors.Wrapf(err, "tx %d", i)
		}
	}

	return b, nil
}
