package grain

import "errors"

var (
	// ErrNotPrepared reports a dataset directory that has no built
	// dataset in it. Run Prepare first.
	ErrNotPrepared = errors.New("dataset not prepared")
	// ErrUnknownSplit reports a split the dataset was not built with.
	ErrUnknownSplit = errors.New("unknown split")
	// ErrNotRegistered reports a dataset name absent from the
	// registry.
	ErrNotRegistered = errors.New("dataset not registered")
)
