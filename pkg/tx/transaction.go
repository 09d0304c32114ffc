package tx

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	Version1 uint32 = 1
)

type TxID cid.Cid

func (id TxID) String() string {
	return cid.Cid(id).String()
}

func (id TxID) Defined() bool {
	return cid.Cid(id).Defined()
}

func ParseTxID(s string) (TxID, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return TxID(cid.Undef), errors.Wrap(err, "decoding tx id")
	}
	return TxID(c), nil
}

type Tx struct {
	Version              uint32            `json:"version" msgpack:"v"`
	Type                 Type              `json:"type" msgpack:"T"`
	SenderID             string            `json:"senderId" msgpack:"s"`
	SenderPublicKey      string            `json:"senderPublicKey" msgpack:"sk"`
	RecipientID          string            `json:"recipientId,omitempty" msgpack:"r,omitempty"`
	Fee                  Amount            `json:"fee" msgpack:"f"`
	Timestamp            int64             `json:"timestamp" msgpack:"t"`
	ApplyBlockHeight     uint64            `json:"applyBlockHeight" msgpack:"ah"`
	EffectiveBlockHeight uint64            `json:"effectiveBlockHeight" msgpack:"eh"`
	FromMagic            string            `json:"fromMagic" msgpack:"fm"`
	ToMagic              string            `json:"toMagic" msgpack:"tm"`
	Signature            string            `json:"signature" msgpack:"sig"`
	Remark               map[string]string `json:"remark,omitempty" msgpack:"rm,omitempty"`
	Asset                Asset             `json:"asset" msgpack:"d"`
}

// Base returns the chain independent type of the tx, or an empty Base for
// an unknown type code.
func (t *Tx) Base() Base {
	c, err := ParseType(t.Type)
	if err != nil {
		return ""
	}
	return c.Base
}

// Payload returns the asset payload matching the tx type.
func (t *Tx) Payload() interface{} {
	return t.Asset.payload(t.Base())
}

// Accounts lists the distinct addresses the tx touches, sender first.
func (t *Tx) Accounts() []string {
	if t.RecipientID == "" || t.RecipientID == t.SenderID {
		return []string{t.SenderID}
	}
	return []string{t.SenderID, t.RecipientID}
}

// CheckPayload ensures the tx carries exactly the one payload its type names.
func (t *Tx) CheckPayload() error {
	code, err := ParseType(t.Type)
	if err != nil {
		return err
	}

	switch t.Asset.count() {
	case 0:
		return errors.Wrapf(ErrMissingPayload, "type %s", t.Type)
	case 1:
	default:
		return errors.Wrapf(ErrPayloadMismatch, "type %s carries multiple payloads", t.Type)
	}

	if t.Asset.payload(code.Base) == nil {
		return errors.Wrapf(ErrPayloadMismatch, "type %s", t.Type)
	}

	return nil
}

func (t *Tx) UnmarshalJSON(b []byte) error {
	type plain Tx

	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	*t = Tx(p)

	return t.CheckPayload()
}

func (t *Tx) Marshal() ([]byte, error) {
	b, err := msgpack.Marshal(t)
	if err != nil {
		return nil, errors.Wrap(err, "mashaling tx")
	}

	return b, nil
}

func (t *Tx) Unmarshal(b []byte) error {
	if err := msgpack.Unmarshal(b, t); err != nil {
		return err
	}

	return t.CheckPayload()
}

// SigningBytes is the canonical form of the tx that ids and signatures are
// computed over. The signature itself is never part of it.
func (t *Tx) SigningBytes() ([]byte, error) {
	c := *t
	c.Signature = ""

	b, err := json.Marshal(&c)
	if err != nil {
		return nil, errors.Wrap(err, "encoding tx signing bytes")
	}

	return b, nil
}

func (t *Tx) digest() (multihash.Multihash, []byte, error) {
	b, err := t.SigningBytes()
	if err != nil {
		return nil, nil, err
	}

	return Digest(b)
}

// Digest hashes b with SHA3-256, returning the multihash and the raw digest.
func Digest(b []byte) (multihash.Multihash, []byte, error) {
	mh, err := multihash.Sum(b, multihash.SHA3_256, -1)
	if err != nil {
		return nil, nil, errors.Wrap(err, "hashing")
	}

	dmh, err := multihash.Decode(mh)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decoding multihash")
	}

	return mh, dmh.Digest, nil
}

func (t *Tx) ID() (TxID, error) {
	mh, _, err := t.digest()
	if err != nil {
		return TxID(cid.Undef), err
	}

	return TxID(cid.NewCidV1(cid.Raw, mh)), nil
}

func (t *Tx) Sign(sk ed25519.PrivateKey) error {
	_, d, err := t.digest()
	if err != nil {
		return err
	}

	t.Signature = hex.EncodeToString(ed25519.Sign(sk, d))

	return nil
}

// Verify checks the signature against the sender public key.
func (t *Tx) Verify() error {
	pk, err := DecodePublicKey(t.SenderPublicKey)
	if err != nil {
		return err
	}

	sig, err := hex.DecodeString(t.Signature)
	if err != nil {
		return errors.Wrap(ErrBadSignature, "signature is not hex")
	}

	_, d, err := t.digest()
	if err != nil {
		return err
	}

	if !ed25519.Verify(pk, d, sig) {
		return ErrBadSignature
	}

	return nil
}

func DecodePublicKey(s string) (ed25519.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalid, "public key is not hex")
	}

	if len(b) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(ErrInvalid, "public key has %d bytes", len(b))
	}

	return ed25519.PublicKey(b), nil
}
