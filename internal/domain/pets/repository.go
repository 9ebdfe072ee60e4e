package pets

import (
	"context"
	"time"
)

// Filter filtra el listado público.
type Filter struct {
	Species string
	Mood    Mood
	Adopted *bool // nil = no filtrar
}

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context, f Filter) ([]Pet, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]Pet, error)
	ListByAdopter(ctx context.Context, adopterID string) ([]Pet, error)
	Delete(ctx context.Context, id string) error

	// MarkAdopted marca la adopción de forma atómica.
	// Devuelve ErrAlreadyAdopted si otro adoptante llegó primero.
	MarkAdopted(ctx context.Context, petID, adopterID string, at time.Time) (Pet, error)

	Count(ctx context.Context) (total, adopted int, err error)
}
