// Package cache stores computed layouts and rendered artifacts.
//
// Three backends implement [Cache]: [FileCache] for the CLI (one JSON file
// per entry under the XDG cache directory), [RedisCache] for shared caches,
// and [NullCache] when caching is disabled. Keys are produced by a [Keyer]
// so the same inputs always map to the same entry regardless of backend.
package cache

import (
	"context"
	"time"
)

// Entry lifetimes.
const (
	// TTLLayout is how long a computed layout stays cached.
	TTLLayout = 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies the layout of one series.
	LayoutKey(seriesHash string) string
	// ArtifactKey identifies one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every render input that changes the output bytes.
type ArtifactKeyOpts struct {
	Format          string   `json:"format"`
	Title           string   `json:"title,omitempty"`
	Colors          []string `json:"colors"`
	TextColor       string   `json:"text_color"`
	VerticalAlign   string   `json:"valign"`
	HorizontalAlign string   `json:"halign"`
	FontSize        float64  `json:"font_size"`
	Size            float64  `json:"size"`
	Gutter          float64  `json:"gutter"`
	Scale           float64  `json:"scale,omitempty"`
}

// DefaultKeyer hashes key inputs into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(seriesHash string) string {
	return hashKey("layout", seriesHash)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
