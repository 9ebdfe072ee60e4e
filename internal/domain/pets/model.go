package pets

import "time"

// Mood define los estados de ánimo soportados.
// Es un atributo cosmético, pero dispara el aviso de "necesita atención".
// @Enum happy, sad, playful, sleepy
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodPlayful Mood = "playful"
	MoodSleepy  Mood = "sleepy"
)

func ParseMood(s string) (Mood, bool) {
	switch Mood(s) {
	case MoodHappy, MoodSad, MoodPlayful, MoodSleepy:
		return Mood(s), true
	default:
		return "", false
	}
}

// Pet representa una publicación de adopción.
//
// Invariante de adopción: IsAdopted, AdoptedByID y AdoptionDate se setean juntos.
// La adopción es exclusiva y final; la arbitra el repositorio (first-writer-wins).
type Pet struct {
	ID         string
	SupplierID string // dueño del listing; siempre un user con role=shelter

	Name        string
	Species     string
	Breed       string
	Age         *int // opcional, >= 0
	Description string
	Mood        Mood
	ImageURL    string

	IsAdopted    bool
	AdoptedByID  *string
	AdoptionDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
