// Package cache stores analysis results between runs.
//
// A [Cache] maps string keys to opaque byte payloads with an optional
// time-to-live. Three backends are provided: [FileCache] for the CLI,
// [RedisCache] for shared deployments of the analysis server, and
// [NullCache] to disable caching.
//
// Keys are built by a [Keyer] from a content hash of the input matrix and
// the options that influence the result, so a cached entry can never be
// served for a different input:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ResultKey(cache.Hash(csvBytes), cache.ResultKeyOpts{Normalize: true})
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for backend failures. A zero ttl passed to Set means the entry never
// expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default entry lifetimes.
const (
	TTLResult   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey identifies the analysis of one matrix under opts.
	ResultKey(matrixHash string, opts ResultKeyOpts) string
	// ArtifactKey identifies one rendered artifact of a result.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts lists the options that change an analysis result.
type ResultKeyOpts struct {
	Normalize       bool `json:"normalize"`
	KeepZeroColumns bool `json:"keep_zero_columns"`
}

// ArtifactKeyOpts lists the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey returns "result:<sha256>" over the matrix hash and options.
func (DefaultKeyer) ResultKey(matrixHash string, opts ResultKeyOpts) string {
	return hashKey("result", matrixHash, opts)
}

// ArtifactKey returns "artifact:<sha256>" over the result hash and options.
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}
