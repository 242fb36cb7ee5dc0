// Package clean removes data older than a retention period: performance
// and ping samples, expired web cookies and players that have not been seen
// since the cutoff together with every row referencing them.
//
// The task is triggered by an external scheduler. It must not run while
// patches are being applied, which holds as long as it is scheduled only
// after setup completes.
//
//	task := clean.New(drv, tables.Registry(), clean.WithRetention(30*24*time.Hour))
//	res, err := task.Run(ctx)
package clean
