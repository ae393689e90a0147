// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

/*
Package services adapts Linkpulse components to suture.Service.

Each wrapper turns a component's own lifecycle into the context-aware
Serve(ctx) error contract that suture expects:

  - HTTPServerService: blocking ListenAndServe plus graceful Shutdown
  - CheckpointService: periodic DuckDB CHECKPOINT on a ticker

Returning nil or ctx.Err() after cancellation is a clean stop. Any other
error is reported to the supervisor, which restarts the service with
backoff.

	tree.AddDataService(services.NewCheckpointService(db, 5*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
*/
package services
