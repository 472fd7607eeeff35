package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"autoscaler/internal/errs"
	"autoscaler/internal/statestore"
)

// Layer implements the save/load side of §4.E on top of a Store. It holds
// no state of its own beyond the store handle and the key/TTL policy, per
// the "persistence owns no long-lived state beyond a connection handle"
// ownership rule in §3.
type Layer struct {
	store     statestore.Store
	keyPrefix string
	batchSize int
	snapshotTTL int64
}

func New(store statestore.Store, keyPrefix string, batchSize int, snapshotTTLSeconds int64) *Layer {
	if batchSize <= 0 {
		batchSize = 50
	}

	return &Layer{
		store:       store,
		keyPrefix:   keyPrefix,
		batchSize:   batchSize,
		snapshotTTL: snapshotTTLSeconds,
	}
}

func (l *Layer) poolKey(functionKey string) string {
	return fmt.Sprintf("%s:pool:%s", l.keyPrefix, functionKey)
}

func (l *Layer) metadataKey() string {
	return fmt.Sprintf("%s:metadata", l.keyPrefix)
}

// SavePool serializes and writes a snapshot with a refreshed TTL. Failures
// are logged and swallowed: persistence never blocks the mutation that
// triggered it.
func (l *Layer) SavePool(ctx context.Context, functionKey string, snapshot PoolSnapshot) {
	blob, err := json.Marshal(snapshot)
	if err != nil {
		logrus.Warnf("persistence: failed to serialize pool %s: %v", functionKey, err)
		return
	}

	if err := l.store.Set(ctx, l.poolKey(functionKey), blob, l.snapshotTTL); err != nil {
		logrus.Warnf("persistence: failed to save pool %s: %v", functionKey, err)
	}
}

// LoadPool reads and deserializes a single snapshot by function key.
func (l *Layer) LoadPool(ctx context.Context, functionKey string) (PoolSnapshot, error) {
	blob, err := l.store.Get(ctx, l.poolKey(functionKey))
	if err != nil {
		return PoolSnapshot{}, err
	}

	var snapshot PoolSnapshot
	if err := json.Unmarshal(blob, &snapshot); err != nil {
		return PoolSnapshot{}, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}

	return snapshot, nil
}

// ListPoolKeys returns every persisted pool key under this layer's prefix.
func (l *Layer) ListPoolKeys(ctx context.Context) ([]string, error) {
	return l.store.Scan(ctx, l.keyPrefix+":pool:")
}

// DeletePool removes a pool's persisted record, used on scale-to-zero or
// cleanup.
func (l *Layer) DeletePool(ctx context.Context, functionKey string) {
	if err := l.store.Delete(ctx, l.poolKey(functionKey)); err != nil {
		logrus.Warnf("persistence: failed to delete pool %s: %v", functionKey, err)
	}
}

// LoadAll lists every pool key, then loads snapshots in parallel chunks of
// batch_size, following the teacher's WaitGroup fan-out recovery idiom
// (here formalized with errgroup). A single snapshot's load failure is
// logged and excluded from the result; recovery proceeds regardless.
func (l *Layer) LoadAll(ctx context.Context) ([]PoolSnapshot, error) {
	keys, err := l.ListPoolKeys(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]PoolSnapshot, 0, len(keys))

	for start := 0; start < len(keys); start += l.batchSize {
		end := start + l.batchSize
		if end > len(keys) {
			end = len(keys)
		}
		chunk := keys[start:end]

		results := make([]*PoolSnapshot, len(chunk))

		g, gctx := errgroup.WithContext(ctx)
		for i, key := range chunk {
			i, key := i, key
			g.Go(func() error {
				blob, err := l.store.Get(gctx, key)
				if err != nil {
					logrus.Warnf("persistence: failed to load snapshot %s: %v", key, err)
					return nil
				}

				var snapshot PoolSnapshot
				if err := json.Unmarshal(blob, &snapshot); err != nil {
					logrus.Warnf("persistence: failed to decode snapshot %s: %v", key, err)
					return nil
				}

				results[i] = &snapshot
				return nil
			})
		}

		// errgroup's group error is always nil here since load failures
		// are logged and swallowed inside each goroutine, not returned.
		_ = g.Wait()

		for _, r := range results {
			if r != nil {
				snapshots = append(snapshots, *r)
			}
		}
	}

	return snapshots, nil
}

// SaveMetadata writes the system-wide recovery bookkeeping record.
func (l *Layer) SaveMetadata(ctx context.Context, meta SystemMetadata) {
	blob, err := json.Marshal(meta)
	if err != nil {
		logrus.Warnf("persistence: failed to serialize metadata: %v", err)
		return
	}

	if err := l.store.Set(ctx, l.metadataKey(), blob, l.snapshotTTL); err != nil {
		logrus.Warnf("persistence: failed to save metadata: %v", err)
	}
}

// LoadMetadata reads the system-wide recovery bookkeeping record.
func (l *Layer) LoadMetadata(ctx context.Context) (SystemMetadata, error) {
	blob, err := l.store.Get(ctx, l.metadataKey())
	if err != nil {
		return SystemMetadata{}, err
	}

	var meta SystemMetadata
	if err := json.Unmarshal(blob, &meta); err != nil {
		return SystemMetadata{}, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}

	return meta, nil
}
