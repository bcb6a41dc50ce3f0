package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
)

type CatalogRepository struct {
	store *Store
}

func (r *CatalogRepository) GetService(ctx context.Context, salonID, serviceID int64) (*domain.Service, error) {
	defer r.store.lock(ctx)()

	svc, ok := r.store.st.services[serviceID]
	if !ok || svc.SalonID != salonID {
		return nil, catalog.ErrServiceNotFound
	}
	c := *svc
	return &c, nil
}

func (r *CatalogRepository) FindServiceByName(ctx context.Context, salonID int64, name string) (*domain.Service, error) {
	defer r.store.lock(ctx)()

	var found *domain.Service
	for _, svc := range r.store.st.services {
		if svc.SalonID != salonID || !strings.EqualFold(svc.Name, name) {
			continue
		}
		if found == nil || svc.ID < found.ID {
			found = svc
		}
	}
	if found == nil {
		return nil, catalog.ErrServiceNotFound
	}
	c := *found
	return &c, nil
}

func (r *CatalogRepository) GetProfessional(ctx context.Context, id int64) (*domain.Professional, error) {
	defer r.store.lock(ctx)()

	p, ok := r.store.st.professionals[id]
	if !ok {
		return nil, catalog.ErrProfessionalNotFound
	}
	c := *p
	return &c, nil
}

func (r *CatalogRepository) ListProfessionals(ctx context.Context) ([]domain.Professional, error) {
	defer r.store.lock(ctx)()
	return r.professionals(func(*domain.Professional) bool { return true }), nil
}

func (r *CatalogRepository) ListSalonProfessionals(ctx context.Context, salonID int64) ([]domain.Professional, error) {
	defer r.store.lock(ctx)()
	return r.professionals(func(p *domain.Professional) bool {
		return p.SalonID == salonID && p.IsAvailable
	}), nil
}

func (r *CatalogRepository) professionals(match func(p *domain.Professional) bool) []domain.Professional {
	result := make([]domain.Professional, 0)
	for _, p := range r.store.st.professionals {
		if match(p) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
