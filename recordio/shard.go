package recordio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/grainx/grain/features"
)

// ShardName returns the canonical shard file name, zero-padded so
// shard files list in order: "train.grainrec-00000-of-00002".
func ShardName(prefix string, index, total int) string {
	return fmt.Sprintf("%s-%05d-of-%05d", prefix, index, total)
}

// ShardPaths returns the full paths of all shards of a split under
// dir.
func ShardPaths(dir, prefix string, total int) []string {
	paths := make([]string, total)
	for i := range paths {
		paths[i] = filepath.Join(dir, ShardName(prefix, i, total))
	}
	return paths
}

// ShardedWriter distributes consecutive examples across a fixed set of
// shard files round-robin, in write order. Every file is created up
// front even if it ends up empty, so a split's shard count is always
// what its info declares.
type ShardedWriter struct {
	adapter *ExampleAdapter
	paths   []string
	writers []*FileWriter
	counts  []int
	next    int
}

// NewShardedWriter creates all shard files at the given paths, making
// parent directories as needed.
func (a *ExampleAdapter) NewShardedWriter(paths []string) (*ShardedWriter, error) {
	if len(paths) == 0 {
		return nil, errors.New("no shard paths")
	}

	sw := &ShardedWriter{
		adapter: a,
		paths:   slices.Clone(paths),
		writers: make([]*FileWriter, len(paths)),
		counts:  make([]int, len(paths)),
	}
	for i, path := range paths {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			sw.Close()
			return nil, fmt.Errorf("creating shard dir: %w", err)
		}
		w, err := Create(path)
		if err != nil {
			sw.Close()
			return nil, err
		}
		sw.writers[i] = w
	}
	return sw, nil
}

// Write encodes one example into the next shard in rotation.
func (sw *ShardedWriter) Write(enc features.Encoded) error {
	payload, err := sw.adapter.Marshal(enc)
	if err != nil {
		return err
	}

	i := sw.next % len(sw.writers)
	sw.next++
	if sw.writers[i] == nil {
		return fmt.Errorf("shard %s already closed", sw.paths[i])
	}
	if err := sw.writers[i].Write(payload); err != nil {
		return fmt.Errorf("writing to %s: %w", sw.paths[i], err)
	}
	sw.counts[i]++
	return nil
}

// Counts returns the number of examples written to each shard, in path
// order.
func (sw *ShardedWriter) Counts() []int {
	return slices.Clone(sw.counts)
}

// Close flushes and closes every shard file. It is safe to call more
// than once.
func (sw *ShardedWriter) Close() error {
	var firstErr error
	for i, w := range sw.writers {
		if w == nil {
			continue
		}
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s: %w", sw.paths[i], err)
		}
		sw.writers[i] = nil
	}
	return firstErr
}
