package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-adoption-api/internal/domain/pets"
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = p
	return nil
}

// Update solo toca el perfil del listing, igual que el UPDATE de postgres.
// Los campos de adopción se preservan del registro guardado: un Adopt que
// llegó entre la lectura y la escritura del caller no se puede pisar.
func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.byID[p.ID]
	if !exists {
		return pets.ErrNotFound
	}

	p.IsAdopted = stored.IsAdopted
	p.AdoptedByID = stored.AdoptedByID
	p.AdoptionDate = stored.AdoptionDate

	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) List(ctx context.Context, f pets.Filter) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if f.Species != "" && !strings.EqualFold(p.Species, f.Species) {
			continue
		}
		if f.Mood != "" && p.Mood != f.Mood {
			continue
		}
		if f.Adopted != nil && p.IsAdopted != *f.Adopted {
			continue
		}
		out = append(out, p)
	}

	sortByCreatedAt(out)
	return out, nil
}

func (r *petRepo) ListBySupplier(ctx context.Context, supplierID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.SupplierID == supplierID {
			out = append(out, p)
		}
	}

	sortByCreatedAt(out)
	return out, nil
}

func (r *petRepo) ListByAdopter(ctx context.Context, adopterID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.AdoptedByID != nil && *p.AdoptedByID == adopterID {
			out = append(out, p)
		}
	}

	sortByCreatedAt(out)
	return out, nil
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return pets.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// MarkAdopted decide la carrera bajo el mismo lock del mapa:
// el segundo adoptante ve IsAdopted=true y pierde.
func (r *petRepo) MarkAdopted(ctx context.Context, petID, adopterID string, at time.Time) (pets.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	if p.IsAdopted {
		return pets.Pet{}, pets.ErrAlreadyAdopted
	}

	p.IsAdopted = true
	p.AdoptedByID = &adopterID
	p.AdoptionDate = &at
	p.UpdatedAt = at

	r.byID[petID] = p
	return p, nil
}

func (r *petRepo) Count(ctx context.Context) (total, adopted int, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		total++
		if p.IsAdopted {
			adopted++
		}
	}
	return total, adopted, nil
}

// Orden estable por created_at asc (solo para consistencia en dev)
func sortByCreatedAt(items []pets.Pet) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
