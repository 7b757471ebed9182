package normalize

import "github.com/erasound/soundkeeper/internal/models"

// RawDevice is a loosely-shaped device record from a scan response.
// Alternate fields (label, online, health, latency) map onto name/status.
type RawDevice struct {
	IP      string `json:"ip"`
	Name    string `json:"name"`
	Label   string `json:"label"`
	Status  string `json:"status"`
	Health  string `json:"health"`
	Online  *bool  `json:"online"`
	Latency *int   `json:"latency"`
}

// Devices canonicalizes a scan result. An empty or nil list falls back to
// the static device list; individual records fall back positionally.
func Devices(raw []RawDevice) []models.Device {
	fallback := models.FallbackDevices()
	if len(raw) == 0 {
		return fallback
	}
	out := make([]models.Device, len(raw))
	for i, rd := range raw {
		fb := fallback[i%len(fallback)]
		d := models.Device{IP: rd.IP, Name: rd.Name, Status: deviceStatus(rd)}
		if d.IP == "" {
			d.IP = fb.IP
		}
		if d.Name == "" {
			if rd.Label != "" {
				d.Name = rd.Label
			} else {
				d.Name = fb.Name
			}
		}
		out[i] = d
	}
	return out
}

// deviceStatus derives a status from whichever health signal the record
// carries, defaulting to online.
func deviceStatus(rd RawDevice) string {
	if rd.Status != "" {
		return rd.Status
	}
	if rd.Online != nil && !*rd.Online {
		return models.DeviceOffline
	}
	if rd.Health != "" {
		return rd.Health
	}
	if rd.Latency != nil && *rd.Latency > 150 {
		return models.DeviceDegraded
	}
	return models.DeviceOnline
}
