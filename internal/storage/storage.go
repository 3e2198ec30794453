// Package storage is the durable key-value port behind the session and
// cart stores. State is persisted as one opaque JSON blob per named
// partition; backends only move bytes.
package storage

import "context"

// Partition names used by the application.
const (
	SessionPartition = "auth-storage"
	CartPartition    = "cart-storage"
)

// Store persists opaque blobs under named partitions. Get returns
// (nil, nil) when the partition has never been written. Clear wipes every
// partition the backend knows about, not just the application's own keys
// ("clean slate" logout relies on this).
type Store interface {
	Get(ctx context.Context, partition string) ([]byte, error)
	Set(ctx context.Context, partition string, data []byte) error
	Delete(ctx context.Context, partition string) error
	Clear(ctx context.Context) error
}
