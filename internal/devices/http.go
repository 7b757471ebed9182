package devices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/erasound/soundkeeper/internal/models"
	"github.com/erasound/soundkeeper/internal/normalize"
)

const (
	requestTimeout = 5 * time.Second

	// Outbound command budget. Devices are small embedded boards; a burst
	// of volume-slider events must not flood them.
	maxCommandsPerSec = 10
	commandBurst      = 5
)

// HTTPClient talks to the device gateway over its REST surface.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewHTTPClient creates a client for the device gateway at baseURL
// (e.g. "http://192.168.0.1:8090").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(maxCommandsPerSec), commandBurst),
	}
}

// Scan asks the gateway for the current device list.
func (c *HTTPClient) Scan(ctx context.Context) ([]models.Device, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/devices/scan", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("device scan: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device scan: unexpected status %d", resp.StatusCode)
	}

	var raw []normalize.RawDevice
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("device scan: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("device scan: empty result")
	}
	return normalize.Devices(raw), nil
}

// Files lists audio files on a device. Devices report either bare
// filename strings or {name, size} objects; bare strings are wrapped.
func (c *HTTPClient) Files(ctx context.Context, ip string) ([]FileInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.deviceURL(ip, "files"), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("device files: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device files: unexpected status %d", resp.StatusCode)
	}

	var rawList []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rawList); err != nil {
		return nil, fmt.Errorf("device files: %w", err)
	}
	files := make([]FileInfo, 0, len(rawList))
	for _, raw := range rawList {
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			files = append(files, FileInfo{Name: name})
			continue
		}
		var fi FileInfo
		if err := json.Unmarshal(raw, &fi); err == nil && fi.Name != "" {
			files = append(files, fi)
		}
	}
	return files, nil
}

// Play starts playback of a file on a device.
func (c *HTTPClient) Play(ctx context.Context, ip, file string) error {
	return c.command(ctx, ip, "play", models.PlayRequest{File: file})
}

// Stop stops playback on a device.
func (c *HTTPClient) Stop(ctx context.Context, ip string) error {
	return c.command(ctx, ip, "stop", nil)
}

// Volume sets a device's volume.
func (c *HTTPClient) Volume(ctx context.Context, ip string, level int) error {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	return c.command(ctx, ip, "volume", models.VolumeRequest{Level: level})
}

// Upload pushes an audio file to a device as multipart form data.
func (c *HTTPClient) Upload(ctx context.Context, ip, filename string, r io.Reader) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.deviceURL(ip, "upload"), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("device upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("device upload: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// command issues a rate-limited POST to a device endpoint.
func (c *HTTPClient) command(ctx context.Context, ip, action string, body any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.deviceURL(ip, action), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("device %s: %w", action, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		slog.Debug("devices: command rejected", "action", action, "ip", ip, "status", resp.StatusCode)
		return fmt.Errorf("device %s: unexpected status %d", action, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) deviceURL(ip, action string) string {
	return fmt.Sprintf("%s/api/device/%s/%s", c.baseURL, ip, action)
}

var _ Client = (*HTTPClient)(nil)
