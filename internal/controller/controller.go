// Package controller implements the SoundKeeper state machine — the single
// source of truth for zones, playlists and transfer progress. All state
// mutations go through the apply() method, which ensures atomicity,
// persistence, event publishing and transfer reconciliation.
package controller

import (
	"sync"

	"github.com/erasound/soundkeeper/internal/config"
	"github.com/erasound/soundkeeper/internal/devices"
	"github.com/erasound/soundkeeper/internal/events"
	"github.com/erasound/soundkeeper/internal/models"
	"github.com/erasound/soundkeeper/internal/transfer"
)

// Controller is the central state machine for SoundKeeper.
type Controller struct {
	mu      sync.RWMutex
	state   models.State
	devices []models.Device // runtime-only scan result, never persisted

	// commitMu serializes a commit together with its post-commit effects
	// (save, publish, reconcile) so they always run in commit order. The
	// tracker's change callback must never take it: Reconcile invokes the
	// callback synchronously while commitMu is held.
	commitMu sync.Mutex

	store   config.Store
	bus     *events.Bus
	tracker *transfer.Tracker
	client  devices.Client
}

// New creates and initializes a Controller. It loads state from the store,
// seeds the transfer tracker from the persisted entries and reconciles
// them against the loaded zones.
func New(store config.Store, bus *events.Bus, tracker *transfer.Tracker, client devices.Client) (*Controller, error) {
	state, err := store.Load()
	if err != nil {
		return nil, err
	}

	c := &Controller{
		state:   *state,
		devices: models.FallbackDevices(),
		store:   store,
		bus:     bus,
		tracker: tracker,
		client:  client,
	}

	tracker.OnChange(c.handleTransfers)
	tracker.Seed(state.Transfers)
	tracker.Reconcile(state.Zones)

	return c, nil
}

// State returns a deep copy of the current system state.
func (c *Controller) State() models.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.DeepCopy()
}

// Tracker exposes the transfer tracker for aggregate queries.
func (c *Controller) Tracker() *transfer.Tracker { return c.tracker }

// apply is the core mutation primitive. It:
//  1. Acquires the write lock and deep-copies the current state
//  2. Calls fn to modify the copy (fn may return an error to abort)
//  3. If fn succeeds: commits, schedules a save, publishes an event and
//     reconciles the transfer tracker against the new zone collection
//
// Reconciliation runs after the state lock is released (the tracker's
// change callback re-enters the controller to persist the transfer
// snapshot), but still under commitMu: without it, two concurrent
// mutations could reconcile out of commit order and resurrect transfer
// entries for a zone/playlist pair that is no longer assigned.
func (c *Controller) apply(fn func(*models.State) error) (models.State, error) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	c.mu.Lock()
	next := c.state.DeepCopy()
	if err := fn(&next); err != nil {
		c.mu.Unlock()
		return models.State{}, err
	}
	c.state = next
	snapshot := next.DeepCopy()
	c.mu.Unlock()

	_ = c.store.Save(&snapshot) // debounced, async
	c.bus.Publish(snapshot)
	c.tracker.Reconcile(snapshot.Zones)
	return snapshot, nil
}

// asAppError converts an apply() error to an AppError.
func asAppError(err error) *models.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*models.AppError); ok {
		return appErr
	}
	return models.ErrInternal(err.Error())
}

// handleTransfers is the tracker's change callback: it writes the entries
// snapshot through to persisted state and publishes the update.
func (c *Controller) handleTransfers(entries map[string]models.TransferEntry) {
	c.mu.Lock()
	c.state.Transfers = entries
	snapshot := c.state.DeepCopy()
	c.mu.Unlock()

	_ = c.store.Save(&snapshot)
	c.bus.Publish(snapshot)
}

// ReplaceState swaps in an externally-loaded state snapshot (uploaded
// config or an external edit to the state file picked up by the watcher).
// The snapshot is assumed to be already normalized.
func (c *Controller) ReplaceState(state *models.State) (models.State, *models.AppError) {
	next, err := c.apply(func(s *models.State) error {
		*s = state.DeepCopy()
		return nil
	})
	return next, asAppError(err)
}

// FactoryReset restores the seeded default state.
func (c *Controller) FactoryReset() (models.State, *models.AppError) {
	def := models.DefaultState()
	return c.ReplaceState(&def)
}

// findZone returns a pointer to the zone with the given ID in the state,
// or nil.
func findZone(state *models.State, id string) *models.Zone {
	for i := range state.Zones {
		if state.Zones[i].ID == id {
			return &state.Zones[i]
		}
	}
	return nil
}

// findPlaylist returns a pointer to the playlist with the given ID, or nil.
func findPlaylist(state *models.State, id string) *models.Playlist {
	for i := range state.Playlists {
		if state.Playlists[i].ID == id {
			return &state.Playlists[i]
		}
	}
	return nil
}
