package adoption

import (
	"encoding/json"
	"net/http"
	"strings"

	"pet-adoption-api/internal/domain/users"
	"pet-adoption-api/internal/middleware"
	"pet-adoption-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// ActorFromClaims normaliza claims a un Actor de policy. nil si no hay identidad.
// Un rol desconocido queda tal cual: la policy lo trata como sin permisos.
func ActorFromClaims(c auth.Claims, ok bool) *Actor {
	if !ok || strings.TrimSpace(c.UserID) == "" {
		return nil
	}
	return &Actor{ID: c.UserID, Role: users.Role(c.Role)}
}

func RegisterRoutes(r chi.Router) {
	// Secciones de navegación visibles para el caller.
	// Sin auth no es error: devuelve lista vacía (el cliente redirige a login).
	r.Get("/me/sections", sectionsHandler())
}

func sectionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := ActorFromClaims(middleware.GetClaims(r.Context()))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sections": VisibleSections(a),
		})
	}
}
