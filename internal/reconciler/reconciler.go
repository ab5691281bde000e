package reconciler

import (
	"context"
	"log/slog"
	"time"
)

// CredentialMaintainer keeps API keys in a usable state.
type CredentialMaintainer interface {
	BootstrapSuperuser(ctx context.Context) (string, error)
	ClearExpiredUserKeys(ctx context.Context) (int64, error)
}

// Reconciler periodically replaces an expired superuser key and clears
// expired user keys.
type Reconciler struct {
	creds    CredentialMaintainer
	interval time.Duration
}

// New creates a new Reconciler.
func New(creds CredentialMaintainer, interval time.Duration) *Reconciler {
	return &Reconciler{
		creds:    creds,
		interval: interval,
	}
}

// Start begins the reconciliation loop. It blocks until ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	slog.Info("reconciler started", "interval", r.interval.String())
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

func (r *Reconciler) reconcile(ctx context.Context) {
	if _, err := r.creds.BootstrapSuperuser(ctx); err != nil {
		slog.Error("reconciler: failed to ensure superuser key", "error", err)
	}

	if ctx.Err() != nil {
		return
	}

	cleared, err := r.creds.ClearExpiredUserKeys(ctx)
	if err != nil {
		slog.Error("reconciler: failed to clear expired user keys", "error", err)
		return
	}
	if cleared > 0 {
		slog.Info("reconciler: cleared expired user keys", "count", cleared)
	}
}
