package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fitfusion/fitfusion-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) Nutrition(ctx context.Context, query string) (json.RawMessage, error) {
	args := m.Called(ctx, query)
	if v, _ := args.Get(0).(json.RawMessage); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestLookup_RequiresQuery(t *testing.T) {
	svc := NewService(&mockFetcher{})

	for _, q := range []string{"", "   "} {
		_, err := svc.Lookup(context.Background(), q)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
	}
}

func TestLookup_PassesThroughProviderResponse(t *testing.T) {
	f := &mockFetcher{}
	body := json.RawMessage(`{"items":[{"name":"banana","calories":89.4}]}`)
	f.On("Nutrition", mock.Anything, "1 banana").Return(body, nil)

	svc := NewService(f)
	got, err := svc.Lookup(context.Background(), "1 banana")

	require.NoError(t, err)
	assert.JSONEq(t, string(body), string(got))
}
