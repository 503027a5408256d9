// Package bootstrap runs the application lifecycle: validate the config,
// start registered components, run hooks, wait for a signal (or run a
// finite task), then stop everything in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(server.NewComponent(srv))
//	err = app.Run(ctx)
package bootstrap
