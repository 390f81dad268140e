package sessionstore

import (
	"time"

	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mrlokans/llm-aggregator/internal/config"
)

func openMemory() *Store {
	store := memstore.NewWithCleanupInterval(time.Minute)
	return &Store{
		Sessions: store,
		backend:  config.SessionStoreMemory,
		close: func() error {
			store.StopCleanup()
			return nil
		},
	}
}
