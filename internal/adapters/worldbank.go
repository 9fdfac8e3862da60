package adapters

import (
	"context"

	"econfetch/internal/fetcher"
	"econfetch/internal/logger"
	"econfetch/internal/models"
	"econfetch/internal/normalizer"
)

const (
	// WorldBankAdapterID is the indexed-pair family (World Bank style).
	WorldBankAdapterID = "world_bank"

	worldBankRecordsIndex = 1
)

var worldBankProjection = []normalizer.Projection{
	{Source: "country.value", Column: "country"},
	{Source: "date", Column: "date"},
	{Source: "value", Column: "value"},
}

// WorldBankAdapter fetches [metadata, [...]] payloads and keeps country, date and value.
type WorldBankAdapter struct {
	client    *fetcher.Client
	processor *normalizer.Processor
	logger    *logger.Logger
}

// NewWorldBankAdapter creates the world_bank adapter.
func NewWorldBankAdapter(client *fetcher.Client, log *logger.Logger) *WorldBankAdapter {
	return &WorldBankAdapter{
		client:    client,
		processor: normalizer.NewProcessor(),
		logger:    log.With("adapter", WorldBankAdapterID),
	}
}

// ID implements Adapter.
func (a *WorldBankAdapter) ID() string {
	return WorldBankAdapterID
}

// Aliases implements Adapter.
func (a *WorldBankAdapter) Aliases() []string {
	return []string{"fetch_world_bank_data"}
}

// Fetch implements Adapter. The API is keyless, so a configured credential is not sent.
func (a *WorldBankAdapter) Fetch(ctx context.Context, req Request) (*models.FetchResult, error) {
	if req.Credential != "" {
		a.logger.Debug("ignoring credential for keyless API", "url", req.Endpoint)
	}

	query := copyParams(req.Params, 1)
	if _, ok := query["format"]; !ok {
		query["format"] = "json"
	}

	resp, err := a.client.Get(ctx, fetcher.Request{URL: req.Endpoint, Query: query})
	if err != nil {
		return nil, err
	}

	table, err := a.processor.ProcessIndexedPair(resp.Body, worldBankRecordsIndex, worldBankProjection)
	if err != nil {
		return shapeMismatch(a.logger, req.Endpoint, err)
	}

	return &models.FetchResult{Table: table}, nil
}
