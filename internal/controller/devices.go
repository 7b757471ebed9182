package controller

import (
	"context"
	"log/slog"
	"time"

	"github.com/erasound/soundkeeper/internal/devices"
	"github.com/erasound/soundkeeper/internal/models"
)

// mdnsBrowseWait bounds the mDNS fallback browse during a scan.
const mdnsBrowseWait = 2 * time.Second

// discoverMDNS is a variable so tests can stub out the LAN browse.
var discoverMDNS = devices.DiscoverMDNS

// Devices returns the most recent scan result.
func (c *Controller) Devices() []models.Device {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Device(nil), c.devices...)
}

// ScanDevices refreshes the device list from the client. When the gateway
// scan fails it falls back to an mDNS browse for players announcing
// themselves; if that finds nothing either, the last-known list (or the
// static fallback) is kept rather than surfacing an error — the dashboard
// always has something to render.
func (c *Controller) ScanDevices(ctx context.Context) []models.Device {
	found, err := c.client.Scan(ctx)
	if err != nil || len(found) == 0 {
		slog.Warn("devices: gateway scan failed, trying mdns browse", "err", err)
		found, err = discoverMDNS(ctx, mdnsBrowseWait)
	}
	if err != nil || len(found) == 0 {
		slog.Warn("devices: scan failed, keeping last-known list", "err", err)
		return c.Devices()
	}

	c.mu.Lock()
	c.devices = found
	snapshot := c.state.DeepCopy()
	c.mu.Unlock()

	c.bus.Publish(snapshot)
	return append([]models.Device(nil), found...)
}
