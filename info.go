package grain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/grainx/grain/features"
)

const (
	infoFileName = "dataset_info.json"
	recordExt    = "grainrec"
)

// SplitInfo records the built size of one split.
type SplitInfo struct {
	NumShards   int `json:"num_shards"`
	NumExamples int `json:"num_examples"`
}

// DatasetInfo describes a dataset: its identity, its feature schema
// and, once built, its split sizes. The info file written next to the
// shards is the authoritative record of what a build produced.
type DatasetInfo struct {
	Name           string              `json:"name"`
	Version        Version             `json:"version"`
	Description    string              `json:"description,omitempty"`
	Features       *features.Dict      `json:"features"`
	SupervisedKeys [2]string           `json:"supervised_keys"`
	Splits         map[Split]SplitInfo `json:"splits,omitempty"`
}

func (info *DatasetInfo) validate() error {
	if info.Name == "" {
		return errors.New("dataset info missing name")
	}
	if info.Features == nil || info.Features.Len() == 0 {
		return fmt.Errorf("dataset %s declares no features", info.Name)
	}
	if k := info.SupervisedKeys; k[0] != "" || k[1] != "" {
		for _, key := range k {
			if _, ok := info.Features.Entry(key); !ok {
				return fmt.Errorf("supervised key %q is not a feature of %s", key, info.Name)
			}
		}
	}
	return nil
}

// WriteFile writes the info file into dir.
func (info *DatasetInfo) WriteFile(dir string) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset info: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, infoFileName), data, 0o600); err != nil {
		return fmt.Errorf("writing dataset info: %w", err)
	}
	return nil
}

// ReadDatasetInfo loads the info file from a built dataset directory.
// A directory without one wraps ErrNotPrepared.
func ReadDatasetInfo(dir string) (*DatasetInfo, error) {
	data, err := os.ReadFile(filepath.Join(dir, infoFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotPrepared)
		}
		return nil, fmt.Errorf("reading dataset info: %w", err)
	}
	info := &DatasetInfo{}
	if err := json.Unmarshal(data, info); err != nil {
		return nil, fmt.Errorf("decoding dataset info: %w", err)
	}
	return info, nil
}

// shardPrefix returns the file name prefix shared by all shards of a
// split, "<name>-<split>.<ext>".
func (info *DatasetInfo) shardPrefix(split Split) string {
	return fmt.Sprintf("%s-%s.%s", info.Name, split, recordExt)
}
