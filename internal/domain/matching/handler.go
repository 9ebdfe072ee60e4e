package matching

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-adoption-api/internal/domain/pets"
	"pet-adoption-api/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// PetSource desacopla el quiz del servicio de pets.
type PetSource interface {
	List(ctx context.Context, f pets.Filter) ([]pets.Pet, error)
}

func RegisterRoutes(r chi.Router, src PetSource) {
	r.Post("/matching/quiz", quizHandler(src))
}

type matchResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed,omitempty"`
	Age         *int      `json:"age,omitempty"`
	Description string    `json:"description"`
	Mood        pets.Mood `json:"mood"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Supplier    string    `json:"supplier"`
	CreatedAt   time.Time `json:"createdAt"`
	MatchScore  int       `json:"matchScore"`
}

func quizHandler(src PetSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var answers Answers
		if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := answers.Validate(); err != nil {
			if errors.Is(err, ErrIncompleteAnswers) {
				writeError(w, http.StatusBadRequest, ErrIncompleteAnswers.Error())
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		adopted := false
		available, err := src.List(r.Context(), pets.Filter{Adopted: &adopted})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		matches := Rank(available, answers)
		out := make([]matchResponse, 0, len(matches))
		for _, m := range matches {
			out = append(out, matchResponse{
				ID:          m.Pet.ID,
				Name:        m.Pet.Name,
				Species:     m.Pet.Species,
				Breed:       m.Pet.Breed,
				Age:         m.Pet.Age,
				Description: m.Pet.Description,
				Mood:        m.Pet.Mood,
				ImageURL:    m.Pet.ImageURL,
				Supplier:    m.Pet.SupplierID,
				CreatedAt:   m.Pet.CreatedAt,
				MatchScore:  m.Score,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
