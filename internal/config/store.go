// Package config handles loading and saving SoundKeeper state.
package config

import "github.com/erasound/soundkeeper/internal/models"

// Store is the interface for persisting system state. It is a best-effort
// write-through cache: Save may debounce, and implementations never
// guarantee durability beyond Flush.
type Store interface {
	// Load loads the current state. Returns the seeded default state if
	// nothing has been persisted yet.
	Load() (*models.State, error)

	// Save persists the state. Implementations may debounce rapid saves.
	Save(state *models.State) error

	// Path returns the file path used by this store.
	Path() string

	// Flush forces an immediate write of any pending state.
	Flush() error
}
