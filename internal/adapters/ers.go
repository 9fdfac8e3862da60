package adapters

import (
	"context"

	"econfetch/internal/fetcher"
	"econfetch/internal/logger"
	"econfetch/internal/models"
	"econfetch/internal/normalizer"
)

const (
	// ERSAdapterID is the object-with-array family (USDA ERS style).
	ERSAdapterID = "usda_ers"

	ersRecordsKey    = "data"
	ersCredentialKey = "api_key"
)

// ERSAdapter fetches {"data": [...]} payloads and flattens every record.
type ERSAdapter struct {
	client    *fetcher.Client
	processor *normalizer.Processor
	logger    *logger.Logger
}

// NewERSAdapter creates the usda_ers adapter.
func NewERSAdapter(client *fetcher.Client, log *logger.Logger) *ERSAdapter {
	return &ERSAdapter{
		client:    client,
		processor: normalizer.NewProcessor(),
		logger:    log.With("adapter", ERSAdapterID),
	}
}

// ID implements Adapter.
func (a *ERSAdapter) ID() string {
	return ERSAdapterID
}

// Aliases implements Adapter.
func (a *ERSAdapter) Aliases() []string {
	return []string{"fetch_usda_ers_data"}
}

// Fetch implements Adapter. The credential travels as the api_key query parameter.
func (a *ERSAdapter) Fetch(ctx context.Context, req Request) (*models.FetchResult, error) {
	query := copyParams(req.Params, 1)
	if req.Credential != "" {
		query[ersCredentialKey] = req.Credential
	}

	resp, err := a.client.Get(ctx, fetcher.Request{URL: req.Endpoint, Query: query})
	if err != nil {
		return nil, err
	}

	table, err := a.processor.ProcessObjectArray(resp.Body, ersRecordsKey)
	if err != nil {
		return shapeMismatch(a.logger, req.Endpoint, err)
	}

	return &models.FetchResult{Table: table}, nil
}
