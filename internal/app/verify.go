package app

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/hutsix/hutsixassets-go/internal/manifest"
	"github.com/hutsix/hutsixassets-go/internal/utils"
)

// DefaultVerifyWorkers is the default number of concurrent checks
const DefaultVerifyWorkers = 8

// VerifyOptions contains options for Verify
type VerifyOptions struct {
	Workers int
	// Progress receives a progress bar when non-nil
	Progress io.Writer
}

// VerifyResult is the outcome for one manifest entry
type VerifyResult struct {
	Key    string `json:"key" yaml:"key"`
	Value  string `json:"value" yaml:"value"`
	Exists bool   `json:"exists" yaml:"exists"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// VerifyReport summarises a manifest verification
type VerifyReport struct {
	Manifest string         `json:"manifest" yaml:"manifest"`
	Results  []VerifyResult `json:"results" yaml:"results"`
	Missing  int            `json:"missing" yaml:"missing"`
}

// OK reports whether every entry points at an existing asset
func (r *VerifyReport) OK() bool {
	return r.Missing == 0
}

// Verify checks that every manifest value resolves to an existing asset.
// Values that are URLs are checked with a HEAD request.
func (a *App) Verify(ctx context.Context, opts VerifyOptions) (*VerifyReport, error) {
	store := a.resolver.Manifest()
	if !store.Exists() {
		return nil, manifest.ErrFileNotFound
	}

	data, err := store.Data()
	if err != nil {
		return nil, err
	}

	keys := data.Keys()
	results := make([]VerifyResult, len(keys))
	for i, k := range keys {
		results[i] = VerifyResult{Key: k, Value: data[k]}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultVerifyWorkers
	}

	var onDone func()
	if opts.Progress != nil {
		bar := utils.NewProgressBar(len(keys), utils.DescVerifying, opts.Progress)
		defer bar.Finish()
		onDone = func() { _ = bar.Add(1) }
	}

	var missing atomic.Int32
	indexes := make([]int, len(keys))
	for i := range indexes {
		indexes[i] = i
	}

	errs := utils.ParallelForEach(ctx, indexes, workers, func(ctx context.Context, i int) error {
		exists, err := a.resolver.EntryExists(ctx, results[i].Value)
		results[i].Exists = exists
		if err != nil {
			results[i].Error = err.Error()
		}
		if !exists {
			missing.Add(1)
			a.logger.WithEntry(results[i].Key, results[i].Value).Warn().
				Msg("Manifest entry points at a missing asset")
		}
		return err
	}, onDone)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.logger.Debug().
		Int("entries", len(keys)).
		Int("errors", len(utils.CollectErrors(errs))).
		Msg("Manifest verified")

	return &VerifyReport{
		Manifest: store.Path(),
		Results:  results,
		Missing:  int(missing.Load()),
	}, nil
}
