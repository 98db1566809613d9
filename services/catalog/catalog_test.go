package catalog

import (
	"context"
	"errors"
	"testing"

	providerRepo "maideasy/database/repository/provider"
	serviceRepo "maideasy/database/repository/service"
	"maideasy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeServices map[string]models.Service

func (f fakeServices) GetByID(_ context.Context, id string) (*models.Service, error) {
	s, ok := f[id]
	if !ok {
		return nil, serviceRepo.ErrNotFound
	}
	return &s, nil
}

func (f fakeServices) ListActive(_ context.Context, category models.ServiceCategory) ([]models.Service, error) {
	var out []models.Service
	for _, s := range f {
		if s.IsActive && (category == "" || s.Category == category) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f fakeServices) Create(context.Context, *models.Service) error { return nil }

type fakeProviders struct {
	list []models.Provider
	err  error
	got  models.ProviderFilter
}

func (f *fakeProviders) GetByID(_ context.Context, id string) (*models.Provider, error) {
	for _, p := range f.list {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, providerRepo.ErrNotFound
}

func (f *fakeProviders) Search(_ context.Context, filter models.ProviderFilter) ([]models.Provider, error) {
	f.got = filter
	return append([]models.Provider(nil), f.list...), f.err
}

func (f *fakeProviders) Create(context.Context, *models.Provider) error { return nil }

func (f *fakeProviders) UpdateRating(context.Context, string, float64, int) error { return nil }

func newCatalog(p *fakeProviders) *DefaultCatalogService {
	return &DefaultCatalogService{
		ServiceRepo: fakeServices{
			"s1": {ID: "s1", Name: "Deep Cleaning", Category: models.CategoryHousekeeping, Price: 500, Duration: 120, IsActive: true},
			"s2": {ID: "s2", Name: "Laundry", Category: models.CategoryLaundry, Price: 200, Duration: 60, IsActive: true},
			"s3": {ID: "s3", Name: "Retired", Category: models.CategoryOther, IsActive: false},
		},
		ProviderRepo: p,
		Logger:       zap.NewNop(),
	}
}

func TestListServices(t *testing.T) {
	c := newCatalog(&fakeProviders{})

	all, err := c.ListServices(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	laundry, err := c.ListServices(context.Background(), models.CategoryLaundry)
	require.NoError(t, err)
	require.Len(t, laundry, 1)
	assert.Equal(t, "s2", laundry[0].ID)

	_, err = c.ListServices(context.Background(), "gardening")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestListProviders_SortedByRating(t *testing.T) {
	p := &fakeProviders{list: []models.Provider{
		{ID: "a", Rating: 4.2, ReviewsCount: 10, IsActive: true},
		{ID: "b", Rating: 4.9, ReviewsCount: 3, IsActive: true},
		{ID: "c", Rating: 4.2, ReviewsCount: 50, IsActive: true},
	}}
	c := newCatalog(p)

	got, err := c.ListProviders(context.Background(), models.ProviderFilter{City: "  Mumbai "})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", p.got.City)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestListProviders_RepoError(t *testing.T) {
	c := newCatalog(&fakeProviders{err: errors.New("timeout")})
	_, err := c.ListProviders(context.Background(), models.ProviderFilter{})
	assert.Error(t, err)
}

func TestGetServiceAndProvider(t *testing.T) {
	c := newCatalog(&fakeProviders{list: []models.Provider{
		{ID: "m1", Name: "Priya", IsActive: true},
		{ID: "m2", Name: "Away", IsActive: false},
	}})

	svc, err := c.GetService(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Deep Cleaning", svc.Name)

	_, err = c.GetService(context.Background(), "s3")
	assert.ErrorIs(t, err, ErrServiceNotFound)
	_, err = c.GetService(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrServiceNotFound)

	m, err := c.GetProvider(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Priya", m.Name)

	_, err = c.GetProvider(context.Background(), "m2")
	assert.ErrorIs(t, err, ErrProviderNotFound)
}
