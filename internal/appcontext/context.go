package appcontext

import (
	"context"

	"github.com/carefinder/listingkit/pkg/logging"
)

// CommandContext returns ctx carrying the app logger tagged with operation.
func CommandContext(ctx context.Context, app Interface, operation string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithOperation(logging.WithLogger(ctx, app.Logger()), operation)
}
