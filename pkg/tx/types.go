package tx

import (
	"strings"

	"github.com/pkg/errors"
)

// Type is a transaction type code, e.g. CCC-CCCHAIN-AST-02. Chains also
// refer to the bare base code (AST-02) when the chain is implied.
type Type string

// Base is the chain independent part of a type code.
type Base string

const (
	BaseLocationName       Base = "LNS-00"
	BaseIssueEntityFactory Base = "ETY-01"
	BaseIssueEntity        Base = "ETY-02"
	BaseTransferAsset      Base = "AST-02"
)

var bases = map[Base]struct{}{
	BaseLocationName:       {},
	BaseIssueEntityFactory: {},
	BaseIssueEntity:        {},
	BaseTransferAsset:      {},
}

type TypeCode struct {
	AssetType string
	ChainName string
	Base      Base
}

// Full reports whether the code names its chain.
func (c TypeCode) Full() bool {
	return c.AssetType != "" && c.ChainName != ""
}

func (c TypeCode) Type() Type {
	if !c.Full() {
		return Type(c.Base)
	}
	return Type(c.AssetType + "-" + c.ChainName + "-" + string(c.Base))
}

func ParseType(t Type) (TypeCode, error) {
	parts := strings.Split(string(t), "-")

	var code TypeCode
	switch len(parts) {
	case 2:
		code.Base = Base(parts[0] + "-" + parts[1])
	case 4:
		if parts[0] == "" || parts[1] == "" {
			return TypeCode{}, errors.Wrapf(ErrUnknownType, "%q", t)
		}
		code.AssetType = parts[0]
		code.ChainName = parts[1]
		code.Base = Base(parts[2] + "-" + parts[3])
	default:
		return TypeCode{}, errors.Wrapf(ErrUnknownType, "%q", t)
	}

	if _, ok := bases[code.Base]; !ok {
		return TypeCode{}, errors.Wrapf(ErrUnknownType, "%q", t)
	}

	return code, nil
}

// MakeType builds the full type code for a chain.
func MakeType(assetType, chainName string, b Base) Type {
	return TypeCode{
		AssetType: assetType,
		ChainName: strings.ToUpper(chainName),
		Base:      b,
	}.Type()
}
