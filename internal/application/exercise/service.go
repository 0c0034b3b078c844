package exercise

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fitfusion/fitfusion-api/internal/domain"
	"github.com/fitfusion/fitfusion-api/internal/pkg/cache"
)

// MultiSearchRequest filters exercises by any combination of attributes. The
// highest-priority non-empty attribute drives the upstream query; the rest are
// applied locally. Priority: bodyPart, equipment, target, name.
type MultiSearchRequest struct {
	Name      string
	BodyPart  string
	Equipment string
	Target    string
}

type Service interface {
	BodyPartList(ctx context.Context) ([]string, error)
	EquipmentList(ctx context.Context) ([]string, error)
	TargetList(ctx context.Context) ([]string, error)
	Search(ctx context.Context, searchType, query string) ([]domain.Exercise, error)
	SearchMultiple(ctx context.Context, req MultiSearchRequest) ([]domain.Exercise, error)
}

// fetcher is the upstream exercise catalog.
type fetcher interface {
	BodyPartList(ctx context.Context) ([]string, error)
	EquipmentList(ctx context.Context) ([]string, error)
	TargetList(ctx context.Context) ([]string, error)
	Search(ctx context.Context, searchType, query string) ([]domain.Exercise, error)
}

type service struct {
	upstream  fetcher
	lists     *cache.Cache[[]string]
	exercises *cache.Cache[[]domain.Exercise]
}

func NewService(upstream fetcher, cacheTTL time.Duration) Service {
	return &service{
		upstream:  upstream,
		lists:     cache.New[[]string](cacheTTL),
		exercises: cache.New[[]domain.Exercise](cacheTTL),
	}
}

func (s *service) BodyPartList(ctx context.Context) ([]string, error) {
	return s.cachedList(ctx, "bodyPartList", s.upstream.BodyPartList)
}

func (s *service) EquipmentList(ctx context.Context) ([]string, error) {
	return s.cachedList(ctx, "equipmentList", s.upstream.EquipmentList)
}

func (s *service) TargetList(ctx context.Context) ([]string, error) {
	return s.cachedList(ctx, "targetList", s.upstream.TargetList)
}

func (s *service) cachedList(ctx context.Context, key string, fetch func(context.Context) ([]string, error)) ([]string, error) {
	if v, ok := s.lists.Get(key); ok {
		return v, nil
	}
	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.lists.Set(key, v)
	return v, nil
}

func (s *service) Search(ctx context.Context, searchType, query string) ([]domain.Exercise, error) {
	if !validSearchType(searchType) {
		return nil, fmt.Errorf("search type must be name, bodyPart, equipment or target: %w", domain.ErrBadRequest)
	}
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrBadRequest)
	}
	return s.cachedSearch(ctx, searchType, strings.ToLower(query))
}

func (s *service) cachedSearch(ctx context.Context, searchType, query string) ([]domain.Exercise, error) {
	key := searchType + "_" + query
	if v, ok := s.exercises.Get(key); ok {
		return v, nil
	}
	v, err := s.upstream.Search(ctx, searchType, query)
	if err != nil {
		return nil, err
	}
	s.exercises.Set(key, v)
	return v, nil
}

// SearchMultiple queries upstream on the dominant attribute and narrows the
// result set by the remaining ones.
func (s *service) SearchMultiple(ctx context.Context, req MultiSearchRequest) ([]domain.Exercise, error) {
	req = MultiSearchRequest{
		Name:      strings.ToLower(strings.TrimSpace(req.Name)),
		BodyPart:  strings.ToLower(strings.TrimSpace(req.BodyPart)),
		Equipment: strings.ToLower(strings.TrimSpace(req.Equipment)),
		Target:    strings.ToLower(strings.TrimSpace(req.Target)),
	}

	searchType, query := dominantAttribute(req)
	if searchType == "" {
		return nil, fmt.Errorf("at least one search attribute is required: %w", domain.ErrBadRequest)
	}

	key := fmt.Sprintf("multiple_%s_%s_%s_%s", req.Name, req.BodyPart, req.Equipment, req.Target)
	if v, ok := s.exercises.Get(key); ok {
		return v, nil
	}

	results, err := s.cachedSearch(ctx, searchType, query)
	if err != nil {
		return nil, err
	}
	filtered := filterExercises(results, req, searchType)
	s.exercises.Set(key, filtered)
	return filtered, nil
}

func dominantAttribute(req MultiSearchRequest) (searchType, query string) {
	switch {
	case req.BodyPart != "":
		return "bodyPart", req.BodyPart
	case req.Equipment != "":
		return "equipment", req.Equipment
	case req.Target != "":
		return "target", req.Target
	case req.Name != "":
		return "name", req.Name
	}
	return "", ""
}

// filterExercises applies the attributes that did not drive the upstream
// query. Name matches by substring; the others match exactly.
func filterExercises(in []domain.Exercise, req MultiSearchRequest, usedType string) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(in))
	for _, e := range in {
		if usedType != "bodyPart" && req.BodyPart != "" && strings.ToLower(e.BodyPart) != req.BodyPart {
			continue
		}
		if usedType != "equipment" && req.Equipment != "" && strings.ToLower(e.Equipment) != req.Equipment {
			continue
		}
		if usedType != "target" && req.Target != "" && strings.ToLower(e.Target) != req.Target {
			continue
		}
		if usedType != "name" && req.Name != "" && !strings.Contains(strings.ToLower(e.Name), req.Name) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func validSearchType(t string) bool {
	switch t {
	case "name", "bodyPart", "equipment", "target":
		return true
	}
	return false
}
