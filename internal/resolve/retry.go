package resolve

import (
	"context"
	"time"

	acterrors "github.com/chriswardell-glean/1password-actions/internal/errors"
	"github.com/chriswardell-glean/1password-actions/internal/logging"
	"github.com/chriswardell-glean/1password-actions/internal/request"
)

// DefaultMaxTry is the retry budget when none is configured.
const DefaultMaxTry = 5

// maxBackoff caps the delay between attempts. Without the cap the doubling
// shift overflows for very large retry budgets.
const maxBackoff = 64 * time.Second

// Orchestrator runs the full resolution cycle (vault-map refresh, path
// parsing, and resolution of every request) as one atomic unit inside an
// exponential-backoff retry loop. A retry starts over from scratch rather
// than resuming at the failing request, so outputs emitted during a failed
// attempt may be re-emitted identically later; sinks must tolerate that.
type Orchestrator struct {
	client         Client
	resolver       *Resolver
	logger         *logging.Logger
	secretPath     string
	failOnNotFound bool
	maxTry         int

	// wait is swapped out by tests to avoid real sleeps.
	wait func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator wires a retry orchestrator around the given collaborators.
// maxTry values below one fall back to a single attempt.
func NewOrchestrator(client Client, sink Sink, logger *logging.Logger, secretPath string, failOnNotFound bool, maxTry int) *Orchestrator {
	if maxTry < 1 {
		maxTry = 1
	}
	return &Orchestrator{
		client:         client,
		resolver:       NewResolver(client, sink, logger),
		logger:         logger,
		secretPath:     secretPath,
		failOnNotFound: failOnNotFound,
		maxTry:         maxTry,
		wait:           sleep,
	}
}

// Run executes up to maxTry attempts, delaying 2^(k-2) seconds before
// attempt k (1s, 2s, 4s, 8s, ..., capped at maxBackoff). When every attempt
// fails it returns RetriesExhaustedError wrapping the final attempt's cause.
func (o *Orchestrator) Run(ctx context.Context) error {
	var lastErr error

	for attempt := 1; attempt <= o.maxTry; attempt++ {
		if attempt >= 2 {
			delay := backoffDelay(attempt)
			o.logger.Info("Retrying in %s (attempt %d of %d)", delay, attempt, o.maxTry)
			if err := o.wait(ctx, delay); err != nil {
				return err
			}
		}

		err := o.attempt(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		o.logger.Warn("Attempt %d of %d failed: %v", attempt, o.maxTry, err)
	}

	return acterrors.RetriesExhaustedError{Attempts: o.maxTry, Cause: lastErr}
}

// attempt is one full pass: rebuild the vault map, re-parse the path, then
// resolve every request in the order the secret path lists them.
func (o *Orchestrator) attempt(ctx context.Context) error {
	vaults, err := buildVaultMap(ctx, o.client, o.logger)
	if err != nil {
		// Without a vault map nothing can be resolved, so a listing
		// failure aborts the attempt regardless of policy.
		return err
	}

	requests, err := request.Parse(o.secretPath)
	if err != nil {
		return err
	}

	for _, req := range requests {
		vaultID, ok := vaults.Lookup(req.Vault)
		if !ok {
			if err := o.classify(acterrors.VaultNotFoundError{Vault: req.Vault}); err != nil {
				return err
			}
			continue
		}

		if _, err := o.resolver.Resolve(ctx, vaultID, req); err != nil {
			if err := o.classify(err); err != nil {
				return err
			}
		}
	}

	return nil
}

// classify is the single propagation decision point for the fail-fast vs.
// warn-and-continue policy. With fail-on-not-found set, misses and
// transport failures abort the attempt; otherwise they are logged and the
// offending request is skipped. Errors the policy does not govern (such as
// sink write failures) always propagate.
func (o *Orchestrator) classify(err error) error {
	if !skippable(err) {
		return err
	}
	if o.failOnNotFound {
		return err
	}
	switch err.(type) {
	case acterrors.SecretNotFoundError:
		o.logger.Info("Skipping: %v", err)
	default:
		o.logger.Warn("Skipping: %v", err)
	}
	return nil
}

// backoffDelay returns the wait before attempt k: one second, doubled per
// attempt up to maxBackoff.
func backoffDelay(attempt int) time.Duration {
	shift := attempt - 2
	if shift > 6 {
		return maxBackoff
	}
	return time.Duration(1<<shift) * time.Second
}

// sleep waits for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
