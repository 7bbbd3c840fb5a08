package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// BulkFailure is one element of a bulk operation that did not go through.
type BulkFailure struct {
	ID    kernel.UUID
	Error string
	Kind  errs.Kind
}

// BulkResult partitions the elements of a bulk operation. Each element runs in its own
// transaction, so a failure never undoes the successful ones.
type BulkResult struct {
	Successful []kernel.UUID
	Failed     []BulkFailure
}

func runBulk[C any](
	ctx context.Context,
	cmds []C,
	id func(C) kernel.UUID,
	run func(context.Context, C) error,
) BulkResult {
	result := BulkResult{
		Successful: make([]kernel.UUID, 0, len(cmds)),
		Failed:     make([]BulkFailure, 0),
	}

	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id(cmd), Error: err.Error(), Kind: errs.KindInternal})
			continue
		}

		if err := run(ctx, cmd); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id(cmd), Error: err.Error(), Kind: errs.KindOf(err)})
			continue
		}
		result.Successful = append(result.Successful, id(cmd))
	}

	return result
}
