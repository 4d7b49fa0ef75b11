package cli

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RunBatch runs fn for every job with at most limit in flight. A failed job
// does not stop the others; once ctx is done no new job starts. The returned
// error joins the failures in job order.
func RunBatch(ctx context.Context, jobs []Job, limit int, fn func(context.Context, Job) error) error {
	failures := make([]error, len(jobs))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failures[i] = fmt.Errorf("%s: %w", job.Input, err)
				return nil
			}
			if err := fn(ctx, job); err != nil {
				failures[i] = fmt.Errorf("%s: %w", job.Input, err)
			}

			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(failures...)
}
