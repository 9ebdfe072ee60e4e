package moodwatch

import (
	"encoding/json"
	"net/http"
	"time"

	"pet-adoption-api/internal/domain/pets"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, w *Watcher) {
	// Snapshot actual de mascotas tristes sin adoptar.
	// El cliente lo pollea; acá no hay push.
	r.Get("/notifications/mood", moodHandler(w))
}

type moodItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Mood      pets.Mood `json:"mood"`
	CreatedAt time.Time `json:"createdAt"`
}

func moodHandler(watcher *Watcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sad := watcher.Snapshot()

		out := make([]moodItem, 0, len(sad))
		for _, p := range sad {
			out = append(out, moodItem{
				ID:        p.ID,
				Name:      p.Name,
				Species:   p.Species,
				Mood:      p.Mood,
				CreatedAt: p.CreatedAt,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count": len(out),
			"pets":  out,
		})
	}
}
