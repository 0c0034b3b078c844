package exercise

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitfusion/fitfusion-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) BodyPartList(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if v, _ := args.Get(0).([]string); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFetcher) EquipmentList(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if v, _ := args.Get(0).([]string); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFetcher) TargetList(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if v, _ := args.Get(0).([]string); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFetcher) Search(ctx context.Context, searchType, query string) ([]domain.Exercise, error) {
	args := m.Called(ctx, searchType, query)
	if v, _ := args.Get(0).([]domain.Exercise); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func chestExercises() []domain.Exercise {
	return []domain.Exercise{
		{ExerciseID: "1", Name: "barbell bench press", BodyPart: "chest", Equipment: "barbell", Target: "pectorals"},
		{ExerciseID: "2", Name: "dumbbell fly", BodyPart: "chest", Equipment: "dumbbell", Target: "pectorals"},
		{ExerciseID: "3", Name: "cable crossover", BodyPart: "chest", Equipment: "cable", Target: "pectorals"},
	}
}

func TestBodyPartList_CachesUpstreamResult(t *testing.T) {
	f := &mockFetcher{}
	f.On("BodyPartList", mock.Anything).Return([]string{"back", "chest"}, nil).Once()

	svc := NewService(f, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := svc.BodyPartList(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"back", "chest"}, got)
	}
	f.AssertExpectations(t)
}

func TestBodyPartList_ErrorNotCached(t *testing.T) {
	f := &mockFetcher{}
	f.On("BodyPartList", mock.Anything).Return(nil, errors.New("upstream down")).Once()
	f.On("BodyPartList", mock.Anything).Return([]string{"chest"}, nil).Once()

	svc := NewService(f, time.Hour)
	ctx := context.Background()

	_, err := svc.BodyPartList(ctx)
	require.Error(t, err)

	got, err := svc.BodyPartList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"chest"}, got)
	f.AssertExpectations(t)
}

func TestSearch_RejectsUnknownType(t *testing.T) {
	svc := NewService(&mockFetcher{}, time.Hour)

	for _, st := range []string{"", "muscle", "BodyPart", "names"} {
		_, err := svc.Search(context.Background(), st, "chest")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
	}
}

func TestSearch_RequiresQuery(t *testing.T) {
	svc := NewService(&mockFetcher{}, time.Hour)

	_, err := svc.Search(context.Background(), "name", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSearch_LowercasesAndCaches(t *testing.T) {
	f := &mockFetcher{}
	f.On("Search", mock.Anything, "bodyPart", "chest").Return(chestExercises(), nil).Once()

	svc := NewService(f, time.Hour)
	ctx := context.Background()

	got, err := svc.Search(ctx, "bodyPart", "Chest")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = svc.Search(ctx, "bodyPart", "chest")
	require.NoError(t, err)
	assert.Len(t, got, 3)
	f.AssertExpectations(t)
}

func TestSearchMultiple_RequiresAnAttribute(t *testing.T) {
	svc := NewService(&mockFetcher{}, time.Hour)

	_, err := svc.SearchMultiple(context.Background(), MultiSearchRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSearchMultiple_BodyPartDrivesQuery(t *testing.T) {
	f := &mockFetcher{}
	f.On("Search", mock.Anything, "bodyPart", "chest").Return(chestExercises(), nil).Once()

	svc := NewService(f, time.Hour)
	got, err := svc.SearchMultiple(context.Background(), MultiSearchRequest{
		BodyPart:  "chest",
		Equipment: "dumbbell",
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "dumbbell fly", got[0].Name)
	f.AssertExpectations(t)
}

func TestSearchMultiple_NameFiltersBySubstring(t *testing.T) {
	f := &mockFetcher{}
	f.On("Search", mock.Anything, "bodyPart", "chest").Return(chestExercises(), nil).Once()

	svc := NewService(f, time.Hour)
	got, err := svc.SearchMultiple(context.Background(), MultiSearchRequest{
		BodyPart: "chest",
		Name:     "press",
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "barbell bench press", got[0].Name)
}

func TestSearchMultiple_FallsBackThroughPriority(t *testing.T) {
	f := &mockFetcher{}
	f.On("Search", mock.Anything, "equipment", "cable").Return(chestExercises()[2:], nil).Once()

	svc := NewService(f, time.Hour)
	got, err := svc.SearchMultiple(context.Background(), MultiSearchRequest{
		Equipment: "cable",
		Name:      "crossover",
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cable crossover", got[0].Name)
	f.AssertExpectations(t)
}

func TestSearchMultiple_ResultIsCached(t *testing.T) {
	f := &mockFetcher{}
	f.On("Search", mock.Anything, "target", "pectorals").Return(chestExercises(), nil).Once()

	svc := NewService(f, time.Hour)
	ctx := context.Background()
	req := MultiSearchRequest{Target: "pectorals", Name: "fly"}

	first, err := svc.SearchMultiple(ctx, req)
	require.NoError(t, err)
	require.Len(t, first, 1)
	second, err := svc.SearchMultiple(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	f.AssertExpectations(t)
}
