// Package httpserver runs an http.Handler with configured timeouts and a
// graceful shutdown tied to a context.
//
// Run binds the listener, serves until ctx is done and then drains in-flight
// requests for at most the shutdown timeout. It is shaped to be an errgroup
// member:
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	g.Go(func() error { return srv.Run(ctx, router) })
//
// HealthCheckHandler serves liveness ("ALIVE") when given no checks and
// readiness ("READY" / "NOT_READY") otherwise.
package httpserver
