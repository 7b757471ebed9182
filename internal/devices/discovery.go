package devices

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/erasound/soundkeeper/internal/models"
)

// MDNSService is the DNS-SD service type announced by compatible players.
const MDNSService = "_soundkeeper-player._tcp"

// DiscoverMDNS browses the LAN for playback devices announcing themselves
// over mDNS and returns whatever answered within wait.
func DiscoverMDNS(ctx context.Context, wait time.Duration) ([]models.Device, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("mdns resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	browseCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	if err := resolver.Browse(browseCtx, MDNSService, "local.", entries); err != nil {
		return nil, fmt.Errorf("mdns browse: %w", err)
	}

	var found []models.Device
	for entry := range entries {
		if len(entry.AddrIPv4) == 0 {
			continue
		}
		found = append(found, models.Device{
			IP:     entry.AddrIPv4[0].String(),
			Name:   entry.Instance,
			Status: models.DeviceOnline,
		})
	}
	slog.Debug("devices: mdns browse finished", "found", len(found))
	return found, nil
}
