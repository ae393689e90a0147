// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

/*
Package supervisor runs Linkpulse's long-lived services under suture v4.

Tree layout:

	RootSupervisor ("linkpulse")
	├── DataSupervisor ("data-layer")
	│   └── CheckpointService (DuckDB only)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with backoff once FailureThreshold is exceeded,
and failures are counted per layer. Canceling the context passed to Serve
stops every service, waiting up to ShutdownTimeout for each.

Supervisor events (start, stop, failure, backoff) are logged through slog
with the sutureslog adapter. The slog handler forwards to zerolog:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped with error")
	}

See the services subpackage for the suture.Service wrappers.
*/
package supervisor
