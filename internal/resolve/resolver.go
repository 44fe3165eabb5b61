// Package resolve turns parsed item requests into published pipeline
// outputs: it maps vault names to identifiers, fetches items, applies the
// field-matching policy, and wraps the whole cycle in bounded retry.
package resolve

import (
	"context"
	"errors"
	"strings"

	acterrors "github.com/chriswardell-glean/1password-actions/internal/errors"
	"github.com/chriswardell-glean/1password-actions/internal/logging"
	"github.com/chriswardell-glean/1password-actions/internal/request"
)

// ResolvedOutput is one published value: the unit handed to the output and
// environment sinks.
type ResolvedOutput struct {
	OutputName string
	Value      string
}

// Sink receives resolved values. Emission is immediate: a value is handed
// over as soon as it is produced, never buffered across requests.
type Sink interface {
	Emit(name, value string) error
}

// Resolver fetches one item per request and emits zero or more outputs
// according to the request's field-matching policy.
type Resolver struct {
	client Client
	sink   Sink
	logger *logging.Logger
}

// NewResolver creates a resolver that fetches through client and publishes
// through sink.
func NewResolver(client Client, sink Sink, logger *logging.Logger) *Resolver {
	return &Resolver{
		client: client,
		sink:   sink,
		logger: logger,
	}
}

// Resolve fetches the requested item from its vault and publishes matching
// fields. With an empty request field every non-empty field is published
// under "<outputName>_<label>"; with a specific field only the first exact
// label match is published, under the verbatim output name when the request
// is overridden. Each output is handed to the sink before the next field is
// considered; the returned slice mirrors what was emitted, in order.
//
// A missing item surfaces as SecretNotFoundError carrying the request's
// vault and item names; the caller decides whether that is fatal.
func (r *Resolver) Resolve(ctx context.Context, vaultID string, req request.ItemRequest) ([]ResolvedOutput, error) {
	item, err := r.client.GetItemByTitle(ctx, vaultID, req.Name)
	if err != nil {
		if acterrors.NotFound(err) {
			// Rewrap with the display names the user wrote in the secret path
			// line; the client only knows the vault identifier.
			return nil, acterrors.SecretNotFoundError{Vault: req.Vault, Item: req.Name, Field: req.Field}
		}
		return nil, err
	}

	var emitted []ResolvedOutput
	foundAny := req.Field == ""

	for _, field := range item.Fields {
		if req.Field != "" && field.Label != req.Field {
			continue
		}
		if field.Value == "" {
			continue
		}

		name := req.OutputName
		if req.Field == "" || !req.OutputOverridden {
			name = req.OutputName + "_" + strings.ToLower(field.Label)
		}

		if err := r.sink.Emit(name, field.Value); err != nil {
			return emitted, err
		}
		emitted = append(emitted, ResolvedOutput{OutputName: name, Value: field.Value})
		foundAny = true

		// First match wins for a targeted field; later fields with the
		// same label are never considered.
		if req.Field != "" {
			break
		}
	}

	if !foundAny {
		return emitted, acterrors.SecretNotFoundError{Vault: req.Vault, Item: req.Name, Field: req.Field}
	}
	return emitted, nil
}

// skippable reports whether err is a condition the fail-on-not-found flag
// governs: a vault or secret miss, or a transport failure while fetching.
func skippable(err error) bool {
	if acterrors.NotFound(err) {
		return true
	}
	var transport acterrors.TransportError
	return errors.As(err, &transport)
}
