package storage

import "github.com/pkg/errors"

var (
	ErrNotFound = errors.New("not found")

	ErrGenesisApplied   = errors.New("genesis already applied")
	ErrNoGenesisAccount = errors.New("no tx is signed by the generator key")

	ErrNameTaken           = errors.New("name already registered")
	ErrFactoryExists       = errors.New("entity factory already exists")
	ErrUnknownFactory      = errors.New("entity factory does not exist")
	ErrNotFactoryPossessor = errors.New("sender does not possess entity factory")
	ErrFactoryExhausted    = errors.New("entity factory has no entities left")
	ErrEntityExists        = errors.New("entity already exists")
	ErrPublicKeyMismatch   = errors.New("sender public key differs from the one on record")

	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTooManyTx           = errors.New("block contains too many tx")
	ErrTxInOtherBlock      = errors.New("tx already in previous block")
	ErrDuplicateTx         = errors.New("tx repeated within block")

	ErrOpNotSupported = errors.New("tx operation not supported on tx type")
)
