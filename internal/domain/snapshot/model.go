package snapshot

import "context"

// Repository stores accepted per-game output snapshots. A full rebuild
// must reproduce the accepted snapshot byte for byte unless the change is
// explicitly accepted.
type Repository interface {
	Get(ctx context.Context, gameID string) ([]byte, bool, error)
	Put(ctx context.Context, gameID string, payload []byte) error
}
