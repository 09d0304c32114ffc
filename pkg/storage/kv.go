package storage

// KVReadWriter is the byte level view over a chain store backend.
type KVReadWriter interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Iterate(prefix []byte, fn func(key, value []byte) error) error
}

// KV is a chain store backend. Keys sort bytewise.
type KV interface {
	KVReadWriter

	// NewBatch starts a batch that sees its own writes and is applied
	// atomically on Commit.
	NewBatch() KVBatch

	Close() error
}

type KVBatch interface {
	KVReadWriter

	Commit() error
	Close() error
}

type metadataKeyType byte

const (
	tableSep byte = ':'
)

const (
	objectTPrefix metadataKeyType = iota + 1
	txBlockTPrefix
	accountTPrefix
	nameTPrefix
	factoryTPrefix
	entityTPrefix
	genesisTPrefix
	generatorsTPrefix
)

func typedKey(kType metadataKeyType, parts ...string) []byte {
	n := 1
	for _, p := range parts {
		n += len(p) + 1 //add sep as well
	}

	k := make([]byte, 0, n)
	k = append(k, byte(kType))
	for _, p := range parts {
		k = append(k, tableSep)
		k = append(k, []byte(p)...)
	}

	return k
}

// PrefixUpperBound is the smallest key greater than every key starting with
// prefix.
func PrefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)

	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}

	return nil
}
