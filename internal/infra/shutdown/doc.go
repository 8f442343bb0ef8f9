// Package shutdown ties long-running commands to process signals.
//
//	ctx, stop := shutdown.WithSignals(context.Background())
//	defer stop()
//	<-ctx.Done() // SIGINT or SIGTERM
//
// Handler additionally runs cleanup hooks (closing the session store,
// flushing metrics) in reverse registration order with a deadline.
package shutdown
