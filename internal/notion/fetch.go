package notion

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BlockSource lists the direct children of a block or page
type BlockSource interface {
	ListChildren(ctx context.Context, blockID string) ([]*Block, error)
}

// Fetcher resolves a page's complete block tree
type Fetcher struct {
	source BlockSource
	sem    chan struct{}
}

// NewFetcher creates a fetcher that keeps at most concurrency API calls in
// flight. Values below 1 mean one call at a time.
func NewFetcher(source BlockSource, concurrency int) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{
		source: source,
		sem:    make(chan struct{}, concurrency),
	}
}

// FetchTree returns a root block standing for rootID whose children, and all
// of their descendants, are resolved. A failure anywhere in the tree fails
// the whole call.
func (f *Fetcher) FetchTree(ctx context.Context, rootID string) (*Block, error) {
	root := &Block{ID: rootID, HasChildren: true}

	children, err := f.fetchChildren(ctx, rootID)
	if err != nil {
		return nil, err
	}
	root.Children = children
	return root, nil
}

// fetchChildren lists one level and expands every child that has children of
// its own. Siblings expand concurrently; each result lands at its own index
// so the order matches the listing.
func (f *Fetcher) fetchChildren(ctx context.Context, blockID string) ([]*Block, error) {
	children, err := f.list(ctx, blockID)
	if err != nil {
		return nil, fmt.Errorf("fetch children of %s: %w", blockID, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, child := range children {
		if !child.HasChildren {
			continue
		}
		g.Go(func() error {
			grandchildren, err := f.fetchChildren(gctx, child.ID)
			if err != nil {
				return err
			}
			child.Children = grandchildren
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return children, nil
}

// list holds a semaphore slot only for the duration of the API call, never
// while waiting on descendants.
func (f *Fetcher) list(ctx context.Context, blockID string) ([]*Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case f.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-f.sem }()

	return f.source.ListChildren(ctx, blockID)
}
