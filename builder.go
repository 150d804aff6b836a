package grain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/grainx/grain/internal/strcase"
	"github.com/grainx/grain/recordio"
)

// Generator defines a dataset: its descriptive info and the example
// generators that produce its splits. Implementations are plain
// structs; see example/ for complete ones.
type Generator interface {
	Info() *DatasetInfo
	SplitGenerators() []SplitGenerator
}

// Builder prepares a Generator's examples into sharded record files
// under a versioned dataset directory, and opens the result for
// reading.
type Builder struct {
	gen  Generator
	info *DatasetInfo
	opts *options
}

// NewBuilder wraps gen with the standard build and read machinery.
// When gen's info leaves Name empty, the name is derived from the
// generator's Go type name, snake_cased.
//
// Example:
//
//	builder := grain.NewBuilder(&MyCorpus{}, grain.WithDataDir(dir))
//	if err := builder.Prepare(ctx); err != nil {
//	    return err
//	}
//	ds, err := builder.Dataset(grain.TrainSplit)
func NewBuilder(gen Generator, opts ...Option) *Builder {
	return newBuilder(gen, "", opts...)
}

func newBuilder(gen Generator, fallbackName string, opts ...Option) *Builder {
	info := gen.Info()
	if info.Name == "" {
		if fallbackName != "" {
			info.Name = fallbackName
		} else {
			info.Name = generatorName(gen)
		}
	}
	return &Builder{gen: gen, info: info, opts: newOptions(opts...)}
}

func generatorName(gen Generator) string {
	t := reflect.TypeOf(gen)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		return "dataset"
	}
	return strcase.ToSnakeCase(name)
}

// Name returns the dataset's on-disk name.
func (b *Builder) Name() string {
	return b.info.Name
}

// Info returns the dataset's info. Split sizes are populated once the
// dataset has been prepared.
func (b *Builder) Info() *DatasetInfo {
	return b.info
}

// Dir returns the versioned dataset directory the builder writes to
// and reads from.
func (b *Builder) Dir() string {
	return filepath.Join(b.opts.dataDir, b.info.Name, b.info.Version.String())
}

// Prepare generates every split into the dataset directory. It is
// idempotent: a directory already holding a built dataset is reused.
// Shards are written into a hidden staging directory renamed into
// place at the end, so an interrupted build never leaves a partial
// dataset behind.
func (b *Builder) Prepare(ctx context.Context) error {
	if err := b.info.validate(); err != nil {
		return err
	}
	dir := b.Dir()
	log := b.opts.logger.With().
		Str("dataset", b.info.Name).
		Str("version", b.info.Version.String()).
		Logger()

	existing, err := ReadDatasetInfo(dir)
	if err == nil {
		log.Info().Msg("dataset already prepared, reusing")
		b.info.Splits = existing.Splits
		return nil
	}
	if !errors.Is(err, ErrNotPrepared) {
		return err
	}

	generators := b.gen.SplitGenerators()
	if err := validateSplitGenerators(b.info.Name, generators); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o750); err != nil {
		return fmt.Errorf("creating dataset dir: %w", err)
	}
	staging := filepath.Join(filepath.Dir(dir), ".incomplete-"+uuid.New().String())
	if err := os.MkdirAll(staging, 0o750); err != nil {
		return fmt.Errorf("creating staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	adapter := recordio.NewExampleAdapter(b.info.Features.SerializedInfo())

	results := make([]map[Split]SplitInfo, len(generators))
	errs := make([]error, len(generators))
	sem := make(chan struct{}, b.opts.workers)
	var wg sync.WaitGroup
	for i, sg := range generators {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], errs[i] = b.runGenerator(ctx, log, adapter, staging, sg)
		}()
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return err
	}

	splits := make(map[Split]SplitInfo)
	for _, m := range results {
		for split, si := range m {
			splits[split] = si
		}
	}
	b.info.Splits = splits
	if err := b.info.WriteFile(staging); err != nil {
		return err
	}

	// A leftover unprepared dir, e.g. from a run killed before this
	// point, would block the rename.
	if _, err := os.Stat(dir); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clearing stale dataset dir: %w", err)
		}
	}
	if err := os.Rename(staging, dir); err != nil {
		return fmt.Errorf("finalizing dataset dir: %w", err)
	}
	log.Info().Int("splits", len(splits)).Msg("dataset prepared")
	return nil
}

func validateSplitGenerators(name string, generators []SplitGenerator) error {
	if len(generators) == 0 {
		return fmt.Errorf("dataset %s declares no split generators", name)
	}
	seen := make(map[Split]bool)
	for _, sg := range generators {
		if len(sg.Splits) == 0 || sg.Generate == nil {
			return fmt.Errorf("split generator of %s missing splits or generate func", name)
		}
		for _, ss := range sg.Splits {
			if ss.NumShards <= 0 {
				return fmt.Errorf("split %s of %s needs at least one shard", ss.Split, name)
			}
			if seen[ss.Split] {
				return fmt.Errorf("split %s of %s declared twice", ss.Split, name)
			}
			seen[ss.Split] = true
		}
	}
	return nil
}

func (b *Builder) runGenerator(ctx context.Context, log zerolog.Logger, adapter *recordio.ExampleAdapter, dir string, sg SplitGenerator) (map[Split]SplitInfo, error) {
	// One generator may feed several splits. Its shard files are
	// flattened into a single list and examples are dealt to that list
	// round-robin.
	type shardRange struct {
		split Split
		start int
		n     int
	}
	var (
		paths  []string
		ranges []shardRange
	)
	for _, ss := range sg.Splits {
		ranges = append(ranges, shardRange{split: ss.Split, start: len(paths), n: ss.NumShards})
		paths = append(paths, recordio.ShardPaths(dir, b.info.shardPrefix(ss.Split), ss.NumShards)...)
	}

	sw, err := adapter.NewShardedWriter(paths)
	if err != nil {
		return nil, err
	}

	count := 0
	yield := func(example map[string]any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		enc, err := b.info.Features.EncodeExample(example)
		if err != nil {
			return fmt.Errorf("example %d: %w", count, err)
		}
		if err := sw.Write(enc); err != nil {
			return err
		}
		count++
		if count%10000 == 0 {
			log.Debug().Int("examples", count).Msg("generating")
		}
		return nil
	}
	if err := sg.Generate(yield); err != nil {
		sw.Close()
		return nil, err
	}
	if err := sw.Close(); err != nil {
		return nil, err
	}

	counts := sw.Counts()
	infos := make(map[Split]SplitInfo, len(sg.Splits))
	for _, r := range ranges {
		total := 0
		for _, c := range counts[r.start : r.start+r.n] {
			total += c
		}
		infos[r.split] = SplitInfo{NumShards: r.n, NumExamples: total}
		log.Info().
			Str("split", string(r.split)).
			Int("examples", total).
			Int("shards", r.n).
			Msg("split written")
	}
	return infos, nil
}

// Dataset opens one prepared split for reading. The info file written
// by Prepare, not the in-memory Generator, decides which splits exist
// and how many shards each has.
func (b *Builder) Dataset(split Split) (*Dataset, error) {
	dir := b.Dir()
	info, err := ReadDatasetInfo(dir)
	if err != nil {
		return nil, err
	}
	si, ok := info.Splits[split]
	if !ok {
		return nil, fmt.Errorf("split %q of %s: %w", split, info.Name, ErrUnknownSplit)
	}
	paths := recordio.ShardPaths(dir, info.shardPrefix(split), si.NumShards)
	return newDataset(info, split, paths), nil
}
