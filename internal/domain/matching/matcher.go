package matching

import (
	"errors"
	"sort"
	"strings"

	"pet-adoption-api/internal/domain/pets"
)

var ErrIncompleteAnswers = errors.New("all quiz answers are required")

// Answers es el set completo de respuestas del quiz (5 preguntas).
// No se aceptan envíos parciales: o viene todo, o 400.
type Answers struct {
	Lifestyle        string `json:"lifestyle"`        // apartment | house
	HomeSize         string `json:"homesize"`         // small | large
	EnergyLevel      string `json:"energylevel"`      // high | low
	SocialPreference string `json:"socialpreference"` // high | low
	TimeAvailable    string `json:"timeavailable"`    // plenty | limited
}

var allowed = map[string][]string{
	"lifestyle":        {"apartment", "house"},
	"homesize":         {"small", "large"},
	"energylevel":      {"high", "low"},
	"socialpreference": {"high", "low"},
	"timeavailable":    {"plenty", "limited"},
}

func (a Answers) Validate() error {
	fields := map[string]string{
		"lifestyle":        a.Lifestyle,
		"homesize":         a.HomeSize,
		"energylevel":      a.EnergyLevel,
		"socialpreference": a.SocialPreference,
		"timeavailable":    a.TimeAvailable,
	}
	for name, v := range fields {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			return ErrIncompleteAnswers
		}
		ok := false
		for _, opt := range allowed[name] {
			if v == opt {
				ok = true
				break
			}
		}
		if !ok {
			return errors.New("invalid answer for " + name)
		}
	}
	return nil
}

type Match struct {
	Pet   pets.Pet
	Score int
}

// Rank puntúa cada mascota disponible contra las respuestas y devuelve
// solo las que suman algo, ordenadas por score desc (empate: listing más viejo
// primero, para que los que más esperan salgan arriba).
//
// La heurística es deliberadamente simple: especie + edad + mood contra
// energía/espacio/tiempo. Determinista, sin aleatoriedad.
func Rank(all []pets.Pet, a Answers) []Match {
	out := make([]Match, 0, len(all))

	for _, p := range all {
		if p.IsAdopted {
			continue
		}
		if score := scorePet(p, a); score > 0 {
			out = append(out, Match{Pet: p, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Pet.CreatedAt.Before(out[j].Pet.CreatedAt)
	})
	return out
}

func scorePet(p pets.Pet, a Answers) int {
	species := strings.ToLower(strings.TrimSpace(p.Species))
	score := 0

	switch strings.ToLower(a.EnergyLevel) {
	case "high":
		if species == "dog" {
			score += 2
		}
		if p.Mood == pets.MoodPlayful {
			score += 2
		}
	case "low":
		if species == "cat" {
			score += 2
		}
		if p.Mood == pets.MoodSleepy {
			score += 2
		}
	}

	switch strings.ToLower(a.Lifestyle) {
	case "apartment":
		if species == "cat" {
			score += 2
		}
	case "house":
		if species == "dog" {
			score += 2
		}
	}

	switch strings.ToLower(a.HomeSize) {
	case "small":
		if species != "dog" {
			score++
		}
	case "large":
		if species == "dog" {
			score++
		}
	}

	switch strings.ToLower(a.SocialPreference) {
	case "high":
		if p.Mood == pets.MoodHappy || p.Mood == pets.MoodPlayful {
			score++
		}
	case "low":
		if p.Mood == pets.MoodSleepy {
			score++
		}
	}

	switch strings.ToLower(a.TimeAvailable) {
	case "plenty":
		if p.Age != nil && *p.Age <= 2 {
			score++
		}
	case "limited":
		if p.Age != nil && *p.Age >= 5 {
			score++
		}
		if species == "cat" {
			score++
		}
	}

	return score
}
