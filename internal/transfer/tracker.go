// Package transfer tracks simulated playlist-upload progress for every
// (zone, playlist, device) combination. It is a state machine, not a
// transport: entries advance from pending to success on a clock-driven
// tick and are reconciled against the zone collection whenever it changes.
package transfer

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/erasound/soundkeeper/internal/models"
)

const (
	// Per-tick progress increment range, percentage points.
	minIncrement    = 10.0
	incrementSpread = 18.0

	// Per-entry tick period range. Jittered per entry so progress bars
	// don't advance in lockstep.
	minInterval    = 700 * time.Millisecond
	intervalSpread = 500 * time.Millisecond

	// How often the driver goroutine checks for due entries.
	driverResolution = 100 * time.Millisecond
)

// KeySeparator joins the three parts of a transfer key.
const KeySeparator = "::"

// Key builds the tracking key for a (zone, playlist, device) triple.
func Key(zoneID, playlistID, deviceIP string) string {
	return zoneID + KeySeparator + playlistID + KeySeparator + deviceIP
}

// SplitKey breaks a tracking key back into its three parts.
// ok is false if the key does not have exactly three parts.
func SplitKey(key string) (zoneID, playlistID, deviceIP string, ok bool) {
	parts := strings.Split(key, KeySeparator)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// entry is the tracked state for one key plus its tick schedule.
type entry struct {
	models.TransferEntry
	interval time.Duration
	due      time.Time
}

// Tracker owns all transfer entries. All methods are safe for concurrent
// use; reconciliation runs to completion under the lock before any tick
// can touch the same key.
type Tracker struct {
	mu       sync.Mutex
	clock    Clock
	rng      *rand.Rand
	entries  map[string]*entry
	onChange func(map[string]models.TransferEntry)
}

// New creates a Tracker. clock may be nil for the system clock; rng may be
// nil for a time-seeded source.
func New(clock Clock, rng *rand.Rand) *Tracker {
	if clock == nil {
		clock = realClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Tracker{
		clock:   clock,
		rng:     rng,
		entries: make(map[string]*entry),
	}
}

// OnChange registers a callback invoked with a full entries snapshot after
// every mutation. Set it before Run; the callback runs outside the
// tracker's lock.
func (t *Tracker) OnChange(fn func(map[string]models.TransferEntry)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Seed loads persisted entries, typically from a saved state snapshot.
// Pending entries are scheduled for their next tick; keys not confirmed by
// a later Reconcile are dropped there.
func (t *Tracker) Seed(entries map[string]models.TransferEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()
	for k, e := range entries {
		ne := &entry{TransferEntry: e}
		if e.Status == models.TransferPending {
			ne.interval = t.nextInterval()
			ne.due = now.Add(ne.interval)
		}
		t.entries[k] = ne
	}
}

// Reconcile aligns the tracked entries with the zone collection: every
// (zone, assigned playlist, assigned device) triple gets an entry, entries
// whose triple is no longer valid are dropped, and valid entries keep
// their progress untouched.
func (t *Tracker) Reconcile(zones []models.Zone) {
	valid := make(map[string]struct{})
	for _, z := range zones {
		for _, listID := range z.PlaylistIDs {
			for _, ip := range z.DeviceIPs {
				if ip == "" {
					continue
				}
				valid[Key(z.ID, listID, ip)] = struct{}{}
			}
		}
	}

	t.mu.Lock()
	changed := false
	now := t.clock.Now()
	for key := range valid {
		if _, ok := t.entries[key]; ok {
			continue
		}
		interval := t.nextInterval()
		t.entries[key] = &entry{
			TransferEntry: models.TransferEntry{Status: models.TransferPending, Progress: 0},
			interval:      interval,
			due:           now.Add(interval),
		}
		changed = true
	}
	for key := range t.entries {
		if _, ok := valid[key]; !ok {
			delete(t.entries, key)
			changed = true
		}
	}
	var snapshot map[string]models.TransferEntry
	var notify func(map[string]models.TransferEntry)
	if changed && t.onChange != nil {
		snapshot = t.snapshotLocked()
		notify = t.onChange
	}
	t.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
}

// Advance ticks every pending entry whose period has elapsed. Progress
// never decreases; reaching 100 transitions the entry to success, after
// which it is never ticked again.
func (t *Tracker) Advance() {
	t.mu.Lock()
	now := t.clock.Now()
	changed := false
	for _, e := range t.entries {
		if e.Status != models.TransferPending {
			continue
		}
		for !e.due.After(now) {
			e.Progress += minIncrement + t.rng.Float64()*incrementSpread
			if e.Progress >= 100 {
				e.Progress = 100
				e.Status = models.TransferSuccess
			}
			e.due = e.due.Add(e.interval)
			changed = true
			if e.Status != models.TransferPending {
				break
			}
		}
	}
	var snapshot map[string]models.TransferEntry
	var notify func(map[string]models.TransferEntry)
	if changed && t.onChange != nil {
		snapshot = t.snapshotLocked()
		notify = t.onChange
	}
	t.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
}

// Run drives the tracker until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(driverResolution)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.Advance()
		case <-ctx.Done():
			return
		}
	}
}

// Entries returns a snapshot of all tracked entries.
func (t *Tracker) Entries() map[string]models.TransferEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Entry returns the tracked entry for a key.
func (t *Tracker) Entry(key string) (models.TransferEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		return models.TransferEntry{}, false
	}
	return e.TransferEntry, true
}

// Aggregate summarizes a (zone, playlist) pair over the given devices:
// idle with no devices, success only when every device has finished,
// otherwise the average progress with success counting as 100.
func (t *Tracker) Aggregate(zoneID, playlistID string, deviceIPs []string) models.TransferSummary {
	if len(deviceIPs) == 0 {
		return models.TransferSummary{State: models.TransferIdle}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	total := len(deviceIPs)
	completed := 0
	sum := 0.0
	for _, ip := range deviceIPs {
		e, ok := t.entries[Key(zoneID, playlistID, ip)]
		if ok && e.Status == models.TransferSuccess {
			completed++
			sum += 100
			continue
		}
		if ok {
			p := e.Progress
			if p < 0 {
				p = 0
			}
			if p > 100 {
				p = 100
			}
			sum += p
		}
	}

	if completed == total {
		return models.TransferSummary{State: models.TransferSuccess, Progress: 100, Total: total, Completed: completed}
	}
	return models.TransferSummary{
		State:     models.TransferInProgress,
		Progress:  int(sum/float64(total) + 0.5),
		Total:     total,
		Completed: completed,
	}
}

func (t *Tracker) snapshotLocked() map[string]models.TransferEntry {
	out := make(map[string]models.TransferEntry, len(t.entries))
	for k, e := range t.entries {
		out[k] = e.TransferEntry
	}
	return out
}

func (t *Tracker) nextInterval() time.Duration {
	return minInterval + time.Duration(t.rng.Int63n(int64(intervalSpread)))
}
