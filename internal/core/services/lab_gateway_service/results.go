package lab_gateway_service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

// Vendors cap the lot-query size, so larger batches are split and the
// chunks fetched concurrently.
const batchChunkSize = 50

func (s *Service) QueryResult(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[*domain.LabResult] {
	return run(ctx, s, "gateway.query_result", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) (*domain.LabResult, error) {
			return vendor.QueryResult(ctx, client, cfg, orderCode)
		})
}

func (s *Service) QueryResultBatch(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCodes []string) domain.ResultEnvelope[[]domain.LabResult] {
	return run(ctx, s, "gateway.query_result_batch", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) ([]domain.LabResult, error) {
			if len(orderCodes) <= batchChunkSize {
				return vendor.QueryResultBatch(ctx, client, cfg, orderCodes)
			}

			var mu sync.Mutex
			var wg sync.WaitGroup

			results := make([]domain.LabResult, 0, len(orderCodes))
			errs := make([]error, 0)

			for start := 0; start < len(orderCodes); start += batchChunkSize {
				end := start + batchChunkSize
				if end > len(orderCodes) {
					end = len(orderCodes)
				}

				wg.Add(1)
				go func(chunk []string) {
					defer wg.Done()

					part, err := vendor.QueryResultBatch(ctx, client, cfg, chunk)

					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						errs = append(errs, err)
						return
					}
					results = append(results, part...)
				}(orderCodes[start:end])
			}
			wg.Wait()

			if len(errs) > 0 {
				return nil, errs[0]
			}
			return results, nil
		})
}

func (s *Service) QueryResultsByPeriod(ctx context.Context, templateSlug string, tenantID *uuid.UUID, period domain.Period) domain.ResultEnvelope[[]domain.LabResult] {
	return run(ctx, s, "gateway.query_results_by_period", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) ([]domain.LabResult, error) {
			return vendor.QueryResultsByPeriod(ctx, client, cfg, period)
		})
}
