package storage

var (
	_ Store = (*MemStore)(nil)
)

// MemStore keeps the chain in memory. It backs dry runs and tests.
type MemStore struct {
	*KVStore
}

func NewMemStore() *MemStore {
	return &MemStore{NewKVStore(newMemKV())}
}
