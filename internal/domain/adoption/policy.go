package adoption

import (
	"strings"

	"pet-adoption-api/internal/domain/users"
)

// Policy de adopción/ownership: funciones puras sobre (actor, mascota) que
// deciden qué acciones están permitidas. No muta nada y nunca falla:
// ante datos malformados responde false (fail closed, nunca fail open).
//
// Los identificadores llegan ya normalizados desde el borde del API (un solo
// campo ID canónico), así que la comparación de ownership es igualdad simple.

// Actor es la identidad autenticada. nil = no autenticado.
type Actor struct {
	ID   string
	Role users.Role
}

// PetView es la vista mínima de una mascota que la policy necesita.
type PetView struct {
	SupplierID   string
	IsAdopted    bool
	AdopterEmail string
}

// CanAdopt: cualquier autenticado que no sea el supplier puede adoptar,
// siempre que la mascota siga disponible.
func CanAdopt(a *Actor, p PetView) bool {
	if a == nil || strings.TrimSpace(a.ID) == "" {
		return false
	}
	if strings.TrimSpace(p.SupplierID) == "" {
		// Listing malformado sin supplier: fail closed.
		return false
	}
	if p.IsAdopted {
		return false
	}
	return a.ID != p.SupplierID
}

// CanEdit: admin siempre; shelter solo sobre sus propios listings.
func CanEdit(a *Actor, p PetView) bool {
	if a == nil || strings.TrimSpace(a.ID) == "" {
		return false
	}
	if strings.TrimSpace(p.SupplierID) == "" {
		return false
	}

	switch a.Role {
	case users.RoleAdmin:
		return true
	case users.RoleShelter:
		return a.ID == p.SupplierID
	case users.RoleAdopter:
		return false
	default:
		return false
	}
}

// CanDelete: mismo predicado que CanEdit.
func CanDelete(a *Actor, p PetView) bool {
	return CanEdit(a, p)
}

// CanContactAdopter: solo el shelter dueño del listing, una vez adoptada
// y con email de adoptante resoluble.
func CanContactAdopter(a *Actor, p PetView) bool {
	if a == nil || strings.TrimSpace(a.ID) == "" {
		return false
	}
	if a.Role != users.RoleShelter {
		return false
	}
	if strings.TrimSpace(p.SupplierID) == "" || a.ID != p.SupplierID {
		return false
	}
	if !p.IsAdopted {
		return false
	}
	return strings.TrimSpace(p.AdopterEmail) != ""
}

// Section identifica las secciones de navegación gateadas por rol.
type Section string

const (
	SectionDashboard      Section = "dashboard"
	SectionAdminDashboard Section = "admin-dashboard"
	SectionProfile        Section = "profile"
	SectionAddPet         Section = "add-pet"
)

// VisibleSections devuelve las secciones visibles para el actor.
// Switch exhaustivo sobre el rol: agregar un rol nuevo obliga a revisar acá.
func VisibleSections(a *Actor) []Section {
	if a == nil || strings.TrimSpace(a.ID) == "" {
		return []Section{}
	}

	switch a.Role {
	case users.RoleAdmin:
		return []Section{SectionAdminDashboard}
	case users.RoleShelter:
		return []Section{SectionDashboard, SectionAddPet}
	case users.RoleAdopter:
		return []Section{SectionProfile}
	default:
		return []Section{}
	}
}
