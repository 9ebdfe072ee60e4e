package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-adoption-api/internal/domain/users"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrAlreadyAdopted = errors.New("pet already adopted")
)

// UserDirectory es lo mínimo que pets necesita del módulo users:
// validar el rol del supplier y resolver el contacto del adoptante.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
	now   func() time.Time
}

func NewService(repo Repository, dir UserDirectory) *Service {
	return &Service{
		repo:  repo,
		users: dir,
		now:   time.Now,
	}
}

type CreateInput struct {
	Name        string
	Species     string
	Breed       string
	Age         *int
	Description string
	Mood        string
	ImageURL    string
}

func (s *Service) Create(ctx context.Context, supplierID string, in CreateInput) (Pet, error) {
	supplierID = strings.TrimSpace(supplierID)
	if supplierID == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Species) == "" {
		return Pet{}, ErrInvalidInput
	}
	if in.Age != nil && *in.Age < 0 {
		return Pet{}, ErrInvalidInput
	}

	// Solo shelters publican listings.
	supplier, err := s.users.GetByID(ctx, supplierID)
	if err != nil {
		return Pet{}, ErrForbidden
	}
	if supplier.Role != users.RoleShelter {
		return Pet{}, ErrForbidden
	}

	mood := MoodHappy
	if strings.TrimSpace(in.Mood) != "" {
		m, ok := ParseMood(strings.TrimSpace(in.Mood))
		if !ok {
			return Pet{}, ErrInvalidInput
		}
		mood = m
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		SupplierID:  supplierID,
		Name:        strings.TrimSpace(in.Name),
		Species:     strings.TrimSpace(in.Species),
		Breed:       strings.TrimSpace(in.Breed),
		Age:         in.Age,
		Description: strings.TrimSpace(in.Description),
		Mood:        mood,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Pet, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) ListBySupplier(ctx context.Context, supplierID string) ([]Pet, error) {
	return s.repo.ListBySupplier(ctx, supplierID)
}

func (s *Service) ListByAdopter(ctx context.Context, adopterID string) ([]Pet, error) {
	return s.repo.ListByAdopter(ctx, adopterID)
}

type UpdateInput struct {
	// Punteros: nil = no tocar. Los campos de adopción no se tocan por acá.
	Name        *string
	Species     *string
	Breed       *string
	Age         *int
	Description *string
	Mood        *string
	ImageURL    *string
}

// Update muta el perfil del listing. La autorización (supplier o admin)
// la decide el handler vía la policy de adopción; acá solo invariantes de datos.
func (s *Service) Update(ctx context.Context, petID string, in UpdateInput) (Pet, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, ErrNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.Species != nil {
		species := strings.TrimSpace(*in.Species)
		if species == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Species = species
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return Pet{}, ErrInvalidInput
		}
		age := *in.Age
		p.Age = &age
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Mood != nil {
		m, ok := ParseMood(strings.TrimSpace(*in.Mood))
		if !ok {
			return Pet{}, ErrInvalidInput
		}
		p.Mood = m
	}
	if in.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*in.ImageURL)
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, petID string) error {
	return s.repo.Delete(ctx, petID)
}

// Adopt registra la adopción. El repo arbitra la carrera: dos intentos
// concurrentes sobre la misma mascota terminan con un solo ganador.
func (s *Service) Adopt(ctx context.Context, petID, adopterID string) (Pet, error) {
	adopterID = strings.TrimSpace(adopterID)
	if adopterID == "" {
		return Pet{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, ErrNotFound
	}
	if p.SupplierID == adopterID {
		// El supplier no adopta su propio listing.
		return Pet{}, ErrForbidden
	}
	if p.IsAdopted {
		return Pet{}, ErrAlreadyAdopted
	}

	return s.repo.MarkAdopted(ctx, petID, adopterID, s.now())
}

// AdopterOf resuelve el contacto del adoptante de una mascota ya adoptada.
func (s *Service) AdopterOf(ctx context.Context, p Pet) (users.User, error) {
	if !p.IsAdopted || p.AdoptedByID == nil {
		return users.User{}, ErrNotFound
	}
	u, err := s.users.GetByID(ctx, *p.AdoptedByID)
	if err != nil {
		return users.User{}, ErrNotFound
	}
	return u, nil
}

func (s *Service) Count(ctx context.Context) (total, adopted int, err error) {
	return s.repo.Count(ctx)
}

// ListSadUnadopted alimenta el barrido de ánimo: tristes y sin adoptar.
func (s *Service) ListSadUnadopted(ctx context.Context) ([]Pet, error) {
	adopted := false
	return s.repo.List(ctx, Filter{Mood: MoodSad, Adopted: &adopted})
}

// MarkStaleSad pasa a "sad" las mascotas sin adoptar publicadas antes del corte.
// Devuelve cuántas cambiaron.
func (s *Service) MarkStaleSad(ctx context.Context, cutoff time.Time) (int, error) {
	adopted := false
	items, err := s.repo.List(ctx, Filter{Adopted: &adopted})
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, p := range items {
		if p.Mood == MoodSad {
			continue
		}
		if !p.CreatedAt.Before(cutoff) {
			continue
		}
		p.Mood = MoodSad
		p.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, p); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
