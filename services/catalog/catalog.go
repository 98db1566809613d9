package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	providerRepo "maideasy/database/repository/provider"
	serviceRepo "maideasy/database/repository/service"
	"maideasy/models"

	"go.uber.org/zap"
)

var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrProviderNotFound = errors.New("maid not found")
	ErrInvalidCategory  = errors.New("unknown service category")
)

// CatalogService exposes the read-only service and maid listings.
type CatalogService interface {
	ListServices(ctx context.Context, category models.ServiceCategory) ([]models.Service, error)
	ListProviders(ctx context.Context, filter models.ProviderFilter) ([]models.Provider, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
}

// DefaultCatalogService implements CatalogService over the Mongo repositories.
type DefaultCatalogService struct {
	ServiceRepo  serviceRepo.ServiceRepository
	ProviderRepo providerRepo.ProviderRepository

	// Cache is optional.
	Cache  ListingCache
	Logger *zap.Logger
}

func (s *DefaultCatalogService) ListServices(ctx context.Context, category models.ServiceCategory) ([]models.Service, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}
	if s.Cache != nil {
		if services, ok := s.Cache.GetServices(ctx, category); ok {
			return services, nil
		}
	}
	services, err := s.ServiceRepo.ListActive(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	if s.Cache != nil {
		if err := s.Cache.SetServices(ctx, category, services); err != nil {
			s.Logger.Warn("failed to cache service listing", zap.Error(err))
		}
	}
	return services, nil
}

// ListProviders returns active maids, highest rated first. Ties keep the
// more reviewed maid ahead.
func (s *DefaultCatalogService) ListProviders(ctx context.Context, filter models.ProviderFilter) ([]models.Provider, error) {
	filter.City = strings.TrimSpace(filter.City)
	providers, err := s.ProviderRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list maids: %w", err)
	}
	sort.SliceStable(providers, func(i, j int) bool {
		if providers[i].Rating != providers[j].Rating {
			return providers[i].Rating > providers[j].Rating
		}
		return providers[i].ReviewsCount > providers[j].ReviewsCount
	})
	s.Logger.Debug("maids listed", zap.String("city", filter.City), zap.Int("count", len(providers)))
	return providers, nil
}

func (s *DefaultCatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.ServiceRepo.GetByID(ctx, id)
	if errors.Is(err, serviceRepo.ErrNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if !svc.IsActive {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

func (s *DefaultCatalogService) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	p, err := s.ProviderRepo.GetByID(ctx, id)
	if errors.Is(err, providerRepo.ErrNotFound) {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get maid: %w", err)
	}
	if !p.IsActive {
		return nil, ErrProviderNotFound
	}
	return p, nil
}
