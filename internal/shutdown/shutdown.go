// Package shutdown provides the process-level termination wait used by
// cmd/autoscaler, following the teacher's WaitTerminationSignal helper.
package shutdown

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

// WaitForSignal blocks until SIGINT or SIGTERM arrives, then runs
// cleanup.
func WaitForSignal(cleanup func()) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logrus.Info("received termination signal, shutting down")

	cleanup()
}
