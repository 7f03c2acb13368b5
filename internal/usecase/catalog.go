package usecase

import (
	"context"
	"errors"
	"strings"

	"logfetch/internal/domain"
)

// CatalogReader reads the curated log-group catalog from a named parameter.
type CatalogReader interface {
	LogGroupCatalog(ctx context.Context, name string) ([]string, error)
}

// GroupLister lists every log group visible to the caller.
type GroupLister interface {
	ListLogGroups(ctx context.Context) ([]domain.LogGroup, error)
}

// CatalogService lists selectable log groups: from the curated catalog
// parameter when one is configured, otherwise from the log-query API.
type CatalogService struct {
	params    CatalogReader
	groups    GroupLister
	paramName string
}

func NewCatalogService(params CatalogReader, groups GroupLister, paramName string) (*CatalogService, error) {
	if groups == nil {
		return nil, errors.New("usecase: group lister must not be nil")
	}
	paramName = strings.TrimSpace(paramName)
	if paramName != "" && params == nil {
		return nil, errors.New("usecase: catalog reader must not be nil when a catalog parameter is set")
	}
	return &CatalogService{params: params, groups: groups, paramName: paramName}, nil
}

// ListGroups returns the catalog. A configured parameter short-circuits the
// API listing; the catalog content is owned by operations, not validated here.
func (s *CatalogService) ListGroups(ctx context.Context) ([]domain.LogGroup, error) {
	if s.paramName != "" {
		names, err := s.params.LogGroupCatalog(ctx, s.paramName)
		if err != nil {
			return nil, newError(ErrorQueryFailure, "catalog_parameter_error", err)
		}
		groups := make([]domain.LogGroup, 0, len(names))
		for _, name := range names {
			groups = append(groups, domain.LogGroup{Name: name})
		}
		return groups, nil
	}

	groups, err := s.groups.ListLogGroups(ctx)
	if err != nil {
		return nil, newError(ErrorQueryFailure, "describe_log_groups_error", err)
	}
	return groups, nil
}
