package pets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"pet-adoption-api/internal/domain/adoption"
	"pet-adoption-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ImageStore sube la imagen de un listing y devuelve su URL pública.
// Puede ser nil: en ese caso el alta funciona solo con JSON.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

const maxImageBytes = 10 << 20 // 10MB

func RegisterRoutes(r chi.Router, svc *Service, images ImageStore) {
	r.Route("/pets", func(pr chi.Router) {
		// Listado público con filtros (species, mood, adopted)
		pr.Get("/", listPetsHandler(svc))

		// Alta (solo shelter; JSON o multipart con imagen)
		pr.Post("/", createPetHandler(svc, images))

		// my-pets: listings propios (shelter) o adopciones propias (adopter)
		pr.Get("/my-pets", myPetsHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc))
		pr.Put("/{petID}", updatePetHandler(svc, images))
		pr.Delete("/{petID}", deletePetHandler(svc))

		// Acción de adopción (exclusiva, first-writer-wins)
		pr.Patch("/{petID}/adopt", adoptPetHandler(svc))

		// Contacto del adoptante (solo supplier, solo adoptadas)
		pr.Get("/{petID}/adopter-contact", adopterContactHandler(svc))
	})
}

type createPetRequest struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Age         *int   `json:"age"`
	Description string `json:"description"`
	Mood        string `json:"mood"`
	ImageURL    string `json:"imageUrl"`
}

type updatePetRequest struct {
	// Punteros para update parcial: nil = no tocar.
	Name        *string `json:"name"`
	Species     *string `json:"species"`
	Breed       *string `json:"breed"`
	Age         *int    `json:"age"`
	Description *string `json:"description"`
	Mood        *string `json:"mood"`
	ImageURL    *string `json:"imageUrl"`
}

// petResponse usa las keys que el cliente web ya consume (camelCase).
type petResponse struct {
	ID           string     `json:"id"`
	Supplier     string     `json:"supplier"`
	Name         string     `json:"name"`
	Species      string     `json:"species"`
	Breed        string     `json:"breed,omitempty"`
	Age          *int       `json:"age,omitempty"`
	Description  string     `json:"description"`
	Mood         Mood       `json:"mood"`
	ImageURL     string     `json:"imageUrl,omitempty"`
	IsAdopted    bool       `json:"isAdopted"`
	AdoptedBy    *string    `json:"adoptedBy,omitempty"`
	AdoptionDate *time.Time `json:"adoptionDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type adopterContactResponse struct {
	PetID    string `json:"petId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := Filter{
			Species: strings.TrimSpace(r.URL.Query().Get("species")),
		}
		if m := strings.TrimSpace(r.URL.Query().Get("mood")); m != "" {
			mood, ok := ParseMood(m)
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown mood")
				return
			}
			f.Mood = mood
		}
		if a := strings.TrimSpace(r.URL.Query().Get("adopted")); a != "" {
			adopted, err := strconv.ParseBool(a)
			if err != nil {
				writeError(w, http.StatusBadRequest, "adopted must be true or false")
				return
			}
			f.Adopted = &adopted
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createPetHandler(svc *Service, images ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		req, imageURL, err := decodePetForm(r, images)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if imageURL != "" {
			req.ImageURL = imageURL
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Age:         req.Age,
			Description: req.Description,
			Mood:        req.Mood,
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "pet not found")
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service, images ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		actor := adoption.ActorFromClaims(claims, ok)
		if actor == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		current, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "pet not found")
			return
		}

		if !adoption.CanEdit(actor, toPetView(current, "")) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		in, err := decodePetUpdate(r, images)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		updated, err := svc.Update(r.Context(), current.ID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		actor := adoption.ActorFromClaims(claims, ok)
		if actor == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		current, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "pet not found")
			return
		}

		if !adoption.CanDelete(actor, toPetView(current, "")) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		if err := svc.Delete(r.Context(), current.ID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func adoptPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		actor := adoption.ActorFromClaims(claims, ok)
		if actor == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		current, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "pet not found")
			return
		}

		if !adoption.CanAdopt(actor, toPetView(current, "")) {
			// La policy distingue poco acá a propósito; el status sí:
			// adoptada => 409, resto => 403.
			if current.IsAdopted {
				writeError(w, http.StatusConflict, ErrAlreadyAdopted.Error())
				return
			}
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		p, err := svc.Adopt(r.Context(), current.ID, actor.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func myPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		actor := adoption.ActorFromClaims(claims, ok)
		if actor == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var (
			items []Pet
			err   error
		)
		switch claims.Role {
		case "shelter":
			items, err = svc.ListBySupplier(r.Context(), actor.ID)
		case "admin":
			items, err = svc.List(r.Context(), Filter{})
		default:
			items, err = svc.ListByAdopter(r.Context(), actor.ID)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func adopterContactHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		actor := adoption.ActorFromClaims(claims, ok)
		if actor == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		current, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "pet not found")
			return
		}

		adopter, adopterErr := svc.AdopterOf(r.Context(), current)

		view := toPetView(current, adopter.Email)
		if adopterErr != nil {
			view.AdopterEmail = ""
		}
		if !adoption.CanContactAdopter(actor, view) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		writeJSON(w, http.StatusOK, adopterContactResponse{
			PetID:    current.ID,
			Username: adopter.Username,
			Email:    adopter.Email,
		})
	}
}

// decodePetForm soporta JSON y multipart/form-data (cuando viene archivo de imagen).
func decodePetForm(r *http.Request, images ImageStore) (createPetRequest, string, error) {
	var req createPetRequest

	if !isMultipart(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, "", errors.New("invalid json")
		}
		return req, "", nil
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		return req, "", errors.New("invalid multipart form")
	}

	req.Name = r.FormValue("name")
	req.Species = r.FormValue("species")
	req.Breed = r.FormValue("breed")
	req.Description = r.FormValue("description")
	req.Mood = r.FormValue("mood")
	if v := strings.TrimSpace(r.FormValue("age")); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return req, "", errors.New("age must be a number")
		}
		req.Age = &age
	}

	url, err := uploadFormImage(r, images)
	if err != nil {
		return req, "", err
	}
	return req, url, nil
}

func decodePetUpdate(r *http.Request, images ImageStore) (UpdateInput, error) {
	var in UpdateInput

	if !isMultipart(r) {
		var req updatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return in, errors.New("invalid json")
		}
		in = UpdateInput{
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Age:         req.Age,
			Description: req.Description,
			Mood:        req.Mood,
			ImageURL:    req.ImageURL,
		}
		return in, nil
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		return in, errors.New("invalid multipart form")
	}

	// En multipart solo vienen los campos presentes en el form.
	setIfPresent := func(field string, dst **string) {
		if vs, ok := r.MultipartForm.Value[field]; ok && len(vs) > 0 {
			v := vs[0]
			*dst = &v
		}
	}
	setIfPresent("name", &in.Name)
	setIfPresent("species", &in.Species)
	setIfPresent("breed", &in.Breed)
	setIfPresent("description", &in.Description)
	setIfPresent("mood", &in.Mood)
	if vs, ok := r.MultipartForm.Value["age"]; ok && len(vs) > 0 {
		age, err := strconv.Atoi(strings.TrimSpace(vs[0]))
		if err != nil {
			return in, errors.New("age must be a number")
		}
		in.Age = &age
	}

	url, err := uploadFormImage(r, images)
	if err != nil {
		return in, err
	}
	if url != "" {
		in.ImageURL = &url
	}
	return in, nil
}

func uploadFormImage(r *http.Request, images ImageStore) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", errors.New("invalid image upload")
	}
	defer file.Close()

	if images == nil {
		return "", errors.New("image storage not configured")
	}

	key := "pets/" + uuid.NewString() + strings.ToLower(path.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")

	url, err := images.Upload(r.Context(), key, contentType, file)
	if err != nil {
		return "", errors.New("image upload failed")
	}
	return url, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func toPetView(p Pet, adopterEmail string) adoption.PetView {
	return adoption.PetView{
		SupplierID:   p.SupplierID,
		IsAdopted:    p.IsAdopted,
		AdopterEmail: adopterEmail,
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:           p.ID,
		Supplier:     p.SupplierID,
		Name:         p.Name,
		Species:      p.Species,
		Breed:        p.Breed,
		Age:          p.Age,
		Description:  p.Description,
		Mood:         p.Mood,
		ImageURL:     p.ImageURL,
		IsAdopted:    p.IsAdopted,
		AdoptedBy:    p.AdoptedByID,
		AdoptionDate: p.AdoptionDate,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// writeJSON/writeError están duplicados intencionalmente en handlers de distintos
// módulos para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "pet not found")
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrAlreadyAdopted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
