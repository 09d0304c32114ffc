package tx

import (
	"bytes"
	"encoding/json"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	ErrAmountOverflow  = errors.New("amount overflow")
	ErrAmountUnderflow = errors.New("amount underflow")
	ErrEmptyAmount     = errors.New("empty amount")
)

// Amount is an unsigned 256-bit quantity of an asset. It travels as a quoted
// decimal string in JSON and YAML.
type Amount uint256.Int

func NewAmount(v uint64) Amount {
	return Amount(*uint256.NewInt(v))
}

func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return Amount{}, ErrEmptyAmount
	}

	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, errors.Wrapf(err, "parsing amount %q", s)
	}

	return Amount(*v), nil
}

func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) int() *uint256.Int {
	v := uint256.Int(a)
	return &v
}

func (a Amount) Add(b Amount) (Amount, error) {
	r, overflow := new(uint256.Int).AddOverflow(a.int(), b.int())
	if overflow {
		return Amount{}, ErrAmountOverflow
	}
	return Amount(*r), nil
}

func (a Amount) Sub(b Amount) (Amount, error) {
	r, underflow := new(uint256.Int).SubOverflow(a.int(), b.int())
	if underflow {
		return Amount{}, ErrAmountUnderflow
	}
	return Amount(*r), nil
}

func (a Amount) Cmp(b Amount) int {
	return a.int().Cmp(b.int())
}

func (a Amount) IsZero() bool {
	return a.int().IsZero()
}

func (a Amount) String() string {
	return a.int().Dec()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = Amount{}
		return nil
	}

	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}

	v, err := ParseAmount(s)
	if err != nil {
		return err
	}

	*a = v
	return nil
}

func (a Amount) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// Ratio expresses parameters such as the minimum fee per byte.
type Ratio struct {
	Numerator   uint64 `json:"numerator" msgpack:"n" yaml:"numerator"`
	Denominator uint64 `json:"denominator" msgpack:"d" yaml:"denominator"`
}
