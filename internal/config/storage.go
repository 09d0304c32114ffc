package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type StorageBackend string

const (
	StorageBackendMemory StorageBackend = "memory"
	StorageBackendPebble StorageBackend = "pebble"
)

type Storage struct {
	Backend StorageBackend
	Path    string
}

const (
	Cfg_storage_backend = "storage.backend"
	Cfg_storage_path    = "storage.path"
)

var (
	storageDefaults = map[string]interface{}{
		Cfg_storage_backend: string(StorageBackendMemory),
		Cfg_storage_path:    "$HOME/.ccgenesis/data",
	}
)

func init() {
	for k, v := range storageDefaults {
		viper.SetDefault(k, v)
	}
}

func buildStorageConfig() (*Storage, error) {
	c := &Storage{
		Backend: StorageBackend(viper.GetString(Cfg_storage_backend)),
		Path:    os.ExpandEnv(viper.GetString(Cfg_storage_path)),
	}

	switch c.Backend {
	case StorageBackendMemory, StorageBackendPebble:
	default:
		return nil, errors.Errorf("unknown storage backend %q", c.Backend)
	}

	if c.Backend == StorageBackendPebble && c.Path == "" {
		return nil, errors.New("pebble storage needs a path")
	}

	return c, nil
}
