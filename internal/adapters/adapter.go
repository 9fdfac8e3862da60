// Package adapters binds each remote API family to a fetch-and-normalize routine.
package adapters

import (
	"context"
	"errors"

	"econfetch/internal/logger"
	"econfetch/internal/models"
	"econfetch/internal/normalizer"
)

// Request carries one source's endpoint, credential and query parameters.
type Request struct {
	Params     map[string]string
	Endpoint   string
	Credential string
}

// Adapter knows the request and response shape of exactly one API family.
type Adapter interface {
	// ID is the canonical adapter_id used in configuration.
	ID() string
	// Aliases are additional ids accepted for this adapter.
	Aliases() []string
	// Fetch returns a normalized table, or an error for network, JSON or projection failures.
	// A payload with an unexpected layout is a zero-row result with ShapeMismatch set.
	Fetch(ctx context.Context, req Request) (*models.FetchResult, error)
}

// shapeMismatch converts an unexpected-shape error into a logged zero-row result.
// Any other error is returned unchanged.
func shapeMismatch(log *logger.Logger, endpoint string, err error) (*models.FetchResult, error) {
	if !errors.Is(err, normalizer.ErrUnexpectedShape) {
		return nil, err
	}

	log.Warn("no data found in response", "url", endpoint, "reason", err.Error())

	return &models.FetchResult{Table: models.EmptyTable(), ShapeMismatch: err.Error()}, nil
}

func copyParams(params map[string]string, extra int) map[string]string {
	out := make(map[string]string, len(params)+extra)
	for k, v := range params {
		out[k] = v
	}

	return out
}
