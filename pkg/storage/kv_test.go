package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedKey(t *testing.T) {
	assert.Equal(t, []byte{byte(genesisTPrefix)}, typedKey(genesisTPrefix))
	assert.Equal(t, []byte{byte(nameTPrefix), ':', 'a', ':', 'b'}, typedKey(nameTPrefix, "a", "b"))
}

func TestPrefixUpperBound(t *testing.T) {
	tests := map[string]struct {
		prefix []byte
		expect []byte
	}{
		"simple":   {[]byte{1, 2}, []byte{1, 3}},
		"carry":    {[]byte{1, 0xff}, []byte{2}},
		"all ones": {[]byte{0xff, 0xff}, nil},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expect, PrefixUpperBound(tc.prefix))
		})
	}
}

func TestMemBatch(t *testing.T) {
	db := newMemKV()

	if err := db.Set([]byte("a1"), []byte("x")); err != nil {
		t.Fatal(err)
	}

	b := db.NewBatch()
	defer b.Close()

	if err := b.Set([]byte("a2"), []byte("y")); err != nil {
		t.Fatal(err)
	}

	v, err := b.Get([]byte("a2"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("y"), v)

	_, err = db.Get([]byte("a2"))
	assert.ErrorIs(t, err, ErrNotFound)

	keys := []string{}
	err = b.Iterate([]byte("a"), func(k, _ []byte) error {
		keys = append(keys, string(k))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, keys)

	if err := b.Commit(); err != nil {
		t.Fatal(err)
	}

	v, err = db.Get([]byte("a2"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("y"), v)
}
