package grain

// Split names one partition of a dataset.
type Split string

const (
	TrainSplit      Split = "train"
	TestSplit       Split = "test"
	ValidationSplit Split = "validation"
)

// SplitShards declares how many shard files one split receives.
type SplitShards struct {
	Split     Split
	NumShards int
}

// SplitGenerator couples one example generator with the splits it
// feeds. Generate must call yield once per example and stop on the
// first non-nil error yield returns. When a generator feeds several
// splits, its examples are dealt round-robin across the flattened
// shard list of all its splits, so each split receives a share of the
// stream proportional to its shard count.
type SplitGenerator struct {
	Splits   []SplitShards
	Generate func(yield func(example map[string]any) error) error
}
