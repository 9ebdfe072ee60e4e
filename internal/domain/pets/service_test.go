package pets

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-adoption-api/internal/domain/users"
)

type fakePetRepo struct {
	byID map[string]Pet
}

func newFakePetRepo() *fakePetRepo {
	return &fakePetRepo{byID: make(map[string]Pet)}
}

func (r *fakePetRepo) Create(_ context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakePetRepo) Update(_ context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *fakePetRepo) GetByID(_ context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *fakePetRepo) List(_ context.Context, f Filter) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if f.Species != "" && p.Species != f.Species {
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
	return out, nil
}

func (r *fakePetRepo) ListBySupplier(_ context.Context, supplierID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.SupplierID == supplierID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePetRepo) ListByAdopter(_ context.Context, adopterID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.AdoptedByID != nil && *p.AdoptedByID == adopterID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakePetRepo) MarkAdopted(_ context.Context, petID, adopterID string, at time.Time) (Pet, error) {
	p, ok := r.byID[petID]
	if !ok {
		return Pet{}, ErrNotFound
	}
	if p.IsAdopted {
		return Pet{}, ErrAlreadyAdopted
	}
	p.IsAdopted = true
	p.AdoptedByID = &adopterID
	p.AdoptionDate = &at
	p.UpdatedAt = at
	r.byID[petID] = p
	return p, nil
}

func (r *fakePetRepo) Count(_ context.Context) (total, adopted int, err error) {
	for _, p := range r.byID {
		total++
		if p.IsAdopted {
			adopted++
		}
	}
	return total, adopted, nil
}

type fakeDirectory struct {
	byID map[string]users.User
}

func (d *fakeDirectory) GetByID(_ context.Context, id string) (users.User, error) {
	u, ok := d.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func newTestPetService() (*Service, *fakePetRepo) {
	repo := newFakePetRepo()
	dir := &fakeDirectory{byID: map[string]users.User{
		"shelter-1": {ID: "shelter-1", Username: "refugio", Email: "refugio@example.com", Role: users.RoleShelter},
		"shelter-2": {ID: "shelter-2", Username: "otro", Email: "otro@example.com", Role: users.RoleShelter},
		"adopter-1": {ID: "adopter-1", Username: "ana", Email: "ana@example.com", Role: users.RoleAdopter},
	}}

	svc := NewService(repo, dir)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func TestCreateRequiresShelter(t *testing.T) {
	svc, _ := newTestPetService()
	ctx := context.Background()

	in := CreateInput{Name: "Firulais", Species: "dog"}

	if _, err := svc.Create(ctx, "adopter-1", in); !errors.Is(err, ErrForbidden) {
		t.Fatalf("adopter as supplier: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(ctx, "ghost", in); !errors.Is(err, ErrForbidden) {
		t.Fatalf("unknown supplier: expected ErrForbidden, got %v", err)
	}

	p, err := svc.Create(ctx, "shelter-1", in)
	if err != nil {
		t.Fatalf("shelter create: %v", err)
	}
	if p.SupplierID != "shelter-1" {
		t.Fatalf("supplier = %q", p.SupplierID)
	}
	if p.Mood != MoodHappy {
		t.Fatalf("default mood = %q", p.Mood)
	}
	if p.IsAdopted {
		t.Fatal("new pet must start unadopted")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestPetService()
	ctx := context.Background()

	negative := -1
	cases := []struct {
		name string
		in   CreateInput
	}{
		{"empty name", CreateInput{Species: "dog"}},
		{"empty species", CreateInput{Name: "Firulais"}},
		{"negative age", CreateInput{Name: "Firulais", Species: "dog", Age: &negative}},
		{"bogus mood", CreateInput{Name: "Firulais", Species: "dog", Mood: "angry"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "shelter-1", tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAdopt(t *testing.T) {
	svc, _ := newTestPetService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "shelter-1", CreateInput{Name: "Michi", Species: "cat"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	adopted, err := svc.Adopt(ctx, p.ID, "adopter-1")
	if err != nil {
		t.Fatalf("adopt: %v", err)
	}
	if !adopted.IsAdopted {
		t.Fatal("IsAdopted should be true")
	}
	if adopted.AdoptedByID == nil || *adopted.AdoptedByID != "adopter-1" {
		t.Fatalf("AdoptedByID = %v", adopted.AdoptedByID)
	}
	if adopted.AdoptionDate == nil {
		t.Fatal("AdoptionDate should be set")
	}

	// Segunda adopción sobre la misma mascota pierde.
	if _, err := svc.Adopt(ctx, p.ID, "shelter-2"); !errors.Is(err, ErrAlreadyAdopted) {
		t.Fatalf("expected ErrAlreadyAdopted, got %v", err)
	}
}

func TestAdoptOwnListingForbidden(t *testing.T) {
	svc, _ := newTestPetService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "shelter-1", CreateInput{Name: "Michi", Species: "cat"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Adopt(ctx, p.ID, "shelter-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAdoptUnknownPet(t *testing.T) {
	svc, _ := newTestPetService()

	if _, err := svc.Adopt(context.Background(), "nope", "adopter-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDoesNotTouchAdoption(t *testing.T) {
	svc, _ := newTestPetService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "shelter-1", CreateInput{Name: "Michi", Species: "cat"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Adopt(ctx, p.ID, "adopter-1"); err != nil {
		t.Fatalf("adopt: %v", err)
	}

	name := "Michifus"
	got, err := svc.Update(ctx, p.ID, UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Michifus" {
		t.Fatalf("name = %q", got.Name)
	}
	if !got.IsAdopted || got.AdoptedByID == nil {
		t.Fatal("update must preserve adoption state")
	}
}

func TestAdopterOf(t *testing.T) {
	svc, _ := newTestPetService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "shelter-1", CreateInput{Name: "Michi", Species: "cat"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AdopterOf(ctx, p); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unadopted pet: expected ErrNotFound, got %v", err)
	}

	adopted, err := svc.Adopt(ctx, p.ID, "adopter-1")
	if err != nil {
		t.Fatalf("adopt: %v", err)
	}

	u, err := svc.AdopterOf(ctx, adopted)
	if err != nil {
		t.Fatalf("adopter of: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("adopter email = %q", u.Email)
	}
}

func TestMarkStaleSad(t *testing.T) {
	svc, repo := newTestPetService()
	ctx := context.Background()

	old, err := svc.Create(ctx, "shelter-1", CreateInput{Name: "Viejo", Species: "dog"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	fresh, err := svc.Create(ctx, "shelter-1", CreateInput{Name: "Nuevo", Species: "dog"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	adoptedPet, err := svc.Create(ctx, "shelter-1", CreateInput{Name: "Adoptado", Species: "cat"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Adopt(ctx, adoptedPet.ID, "adopter-1"); err != nil {
		t.Fatalf("adopt: %v", err)
	}

	// Retrocede el alta de "Viejo" y "Adoptado" para que queden detrás del corte.
	backdate := func(id string) {
		p := repo.byID[id]
		p.CreatedAt = p.CreatedAt.Add(-100 * time.Hour)
		repo.byID[id] = p
	}
	backdate(old.ID)
	backdate(adoptedPet.ID)

	cutoff := svc.now().Add(-72 * time.Hour)
	changed, err := svc.MarkStaleSad(ctx, cutoff)
	if err != nil {
		t.Fatalf("mark stale: %v", err)
	}
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}

	got, _ := svc.GetByID(ctx, old.ID)
	if got.Mood != MoodSad {
		t.Fatalf("old pet mood = %q, want sad", got.Mood)
	}

	got, _ = svc.GetByID(ctx, fresh.ID)
	if got.Mood != MoodHappy {
		t.Fatalf("fresh pet mood = %q, want happy", got.Mood)
	}

	got, _ = svc.GetByID(ctx, adoptedPet.ID)
	if got.Mood != MoodHappy {
		t.Fatalf("adopted pet must not be marked sad, mood = %q", got.Mood)
	}

	// Idempotente: segundo barrido no cambia nada.
	changed, err = svc.MarkStaleSad(ctx, cutoff)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if changed != 0 {
		t.Fatalf("second sweep changed = %d, want 0", changed)
	}
}
