// Package cache provides artifact caching for rendered posters. Rendering a
// 2160x2700 poster with a fine cell size takes seconds; re-rendering the
// same portrait with the same settings should not. Backends cover local CLI
// use (files), shared deployments (Redis), and disabled caching (null).
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind. Fields are cheap to recompute, finished
// posters are not.
const (
	TTLField    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface for rendered artifacts and metadata.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the render pipeline.
type Keyer interface {
	// FieldKey keys a normalized brightness field by source image hash
	// and normalization settings.
	FieldKey(imageHash string, opts FieldKeyOpts) string

	// ArtifactKey keys a finished poster by source image hash and the
	// full render settings that produced it.
	ArtifactKey(imageHash string, opts ArtifactKeyOpts) string
}

// FieldKeyOpts identifies a normalization pass.
type FieldKeyOpts struct {
	Width              int
	Height             int
	PreGamma           float64
	EnhanceContrast    bool
	SuppressBackground float64
}

// ArtifactKeyOpts identifies a full render. Any field change produces a
// different key, which is what makes cached artifacts safe to reuse.
type ArtifactKeyOpts struct {
	Format             string
	Width              int
	Height             int
	Preset             string
	Theme              string
	Style              string
	CellSize           int
	MaxRadius          float64
	Gamma              float64
	PreGamma           float64
	Threshold          float64
	Seed               int64
	Jitter             float64
	EdgeBoost          float64
	FeatherPx          float64
	SuppressBackground float64
	Quote              string
	QuotePosition      string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// FieldKey generates a key for field caching.
func (k *DefaultKeyer) FieldKey(imageHash string, opts FieldKeyOpts) string {
	return hashKey("field", imageHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(imageHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", imageHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
