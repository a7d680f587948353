// Package workers contains background workers for the download domain
package workers

import (
	"context"

	"go.uber.org/fx"
)

// Module provides workers for fx dependency injection
var Module = fx.Module("download-workers",
	fx.Provide(NewCleanupWorker),
	fx.Invoke(registerCleanupWorkerLifecycle),
)

// registerCleanupWorkerLifecycle registers cleanup worker lifecycle hooks.
// On shutdown the scratch directory is drained after the sweep loop stops.
func registerCleanupWorkerLifecycle(lc fx.Lifecycle, worker *CleanupWorker) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			worker.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			worker.Stop()
			worker.Drain()
			return nil
		},
	})
}
