package admin

import (
	"context"

	"pet-adoption-api/internal/domain/users"
)

// UserCounter / PetCounter desacoplan stats de los servicios concretos.
type UserCounter interface {
	CountByRole(ctx context.Context) (map[users.Role]int, error)
}

type PetCounter interface {
	Count(ctx context.Context) (total, adopted int, err error)
}

type Stats struct {
	TotalUsers    int                `json:"totalUsers"`
	UsersByRole   map[users.Role]int `json:"usersByRole"`
	TotalPets     int                `json:"totalPets"`
	AdoptedPets   int                `json:"adoptedPets"`
	AvailablePets int                `json:"availablePets"`
}

type Service struct {
	users UserCounter
	pets  PetCounter
}

func NewService(uc UserCounter, pc PetCounter) *Service {
	return &Service{users: uc, pets: pc}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return Stats{}, err
	}

	total, adopted, err := s.pets.Count(ctx)
	if err != nil {
		return Stats{}, err
	}

	totalUsers := 0
	for _, n := range byRole {
		totalUsers += n
	}

	return Stats{
		TotalUsers:    totalUsers,
		UsersByRole:   byRole,
		TotalPets:     total,
		AdoptedPets:   adopted,
		AvailablePets: total - adopted,
	}, nil
}
