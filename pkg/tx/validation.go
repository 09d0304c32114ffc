package tx

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	maxNameLength = 512
)

var (
	nameRe      = regexp.MustCompile(`^[a-z0-9.-]+$`)
	factoryIDRe = regexp.MustCompile(`^[a-z0-9]{3,30}$`)
)

// IsValid performs the checks that need nothing but the tx itself.
func (t *Tx) IsValid() error {
	if t.Version < Version1 {
		return errors.Wrapf(ErrInvalid, "unsupported version %d", t.Version)
	}

	if err := t.CheckPayload(); err != nil {
		return err
	}

	if t.SenderID == "" {
		return errors.Wrap(ErrInvalid, "missing sender")
	}

	if _, err := DecodePublicKey(t.SenderPublicKey); err != nil {
		return errors.Wrap(err, "sender public key")
	}

	if t.ApplyBlockHeight > t.EffectiveBlockHeight {
		return errors.Wrapf(ErrInvalid, "apply height %d after effective height %d", t.ApplyBlockHeight, t.EffectiveBlockHeight)
	}

	switch p := t.Payload().(type) {
	case *LocationName:
		return isLocationNameValid(p)
	case *IssueEntityFactory:
		return isFactoryValid(p)
	case *IssueEntity:
		return isEntityValid(p)
	case *TransferAsset:
		return t.isTransferValid(p)
	default:
		return errors.Wrapf(ErrUnknownType, "%q", t.Type)
	}
}

func isLocationNameValid(p *LocationName) error {
	if p.Name == "" {
		return errors.Wrap(ErrInvalid, "empty name")
	}

	if len(p.Name) > maxNameLength {
		return errors.Wrapf(ErrInvalid, "name longer than %d", maxNameLength)
	}

	if !nameRe.MatchString(p.Name) {
		return errors.Wrapf(ErrInvalid, "name %q has invalid characters", p.Name)
	}

	return nil
}

func isFactoryValid(p *IssueEntityFactory) error {
	if !factoryIDRe.MatchString(p.FactoryID) {
		return errors.Wrapf(ErrInvalid, "factory id %q", p.FactoryID)
	}

	if p.EntityPrealnum.IsZero() {
		return errors.Wrapf(ErrInvalid, "factory %s allows no entities", p.FactoryID)
	}

	return nil
}

func isEntityValid(p *IssueEntity) error {
	if err := isFactoryValid(&p.EntityFactory); err != nil {
		return err
	}

	if !strings.HasPrefix(p.EntityID, p.EntityFactory.FactoryID+"_") || len(p.EntityID) == len(p.EntityFactory.FactoryID)+1 {
		return errors.Wrapf(ErrInvalid, "entity id %q not issued from factory %s", p.EntityID, p.EntityFactory.FactoryID)
	}

	if p.EntityFactoryPossessor == "" {
		return errors.Wrap(ErrInvalid, "missing factory possessor")
	}

	return nil
}

func (t *Tx) isTransferValid(p *TransferAsset) error {
	if t.RecipientID == "" {
		return errors.Wrap(ErrInvalid, "transfer without recipient")
	}

	if p.AssetType == "" || p.SourceChainMagic == "" {
		return errors.Wrap(ErrInvalid, "transfer without asset")
	}

	if p.Amount.IsZero() {
		return errors.Wrap(ErrInvalid, "zero transfer amount")
	}

	return nil
}
