package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fitfusion/fitfusion-api/internal/domain"
)

type Service interface {
	Lookup(ctx context.Context, query string) (json.RawMessage, error)
}

type fetcher interface {
	Nutrition(ctx context.Context, query string) (json.RawMessage, error)
}

type service struct {
	upstream fetcher
}

func NewService(upstream fetcher) Service {
	return &service{upstream: upstream}
}

// Lookup passes the free-text food query to the nutrition provider and
// returns its response verbatim.
func (s *service) Lookup(ctx context.Context, query string) (json.RawMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrBadRequest)
	}
	return s.upstream.Nutrition(ctx, query)
}
