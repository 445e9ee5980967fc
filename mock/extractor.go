package mock

import (
	"context"

	"github.com/use-agent/kitchenscan/api/handler"
	"github.com/use-agent/kitchenscan/models"
)

var _ handler.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of handler.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, req models.ExtractRequest) *models.ExtractionResult
}

func (e *Extractor) Extract(ctx context.Context, req models.ExtractRequest) *models.ExtractionResult {
	return e.ExtractFn(ctx, req)
}
