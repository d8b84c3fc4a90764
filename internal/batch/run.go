package batch

import (
	"context"

	"github.com/aretw0/fbxtools/pkg/domain"
)

// Cloner runs one clone request.
type Cloner interface {
	Clone(ctx context.Context, req domain.CloneRequest) *domain.Result
}

// Run executes jobs one after the other. Invalid jobs fail individually and
// do not stop the batch; a cancelled ctx skips the remaining jobs.
func Run(ctx context.Context, c Cloner, jobs []domain.CloneRequest) []*domain.Result {
	results := make([]*domain.Result, 0, len(jobs))
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		results = append(results, c.Clone(ctx, job))
	}
	return results
}

// Summary counts succeeded and failed results.
func Summary(results []*domain.Result) (ok, failed int) {
	for _, r := range results {
		if r.OK() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
