package matching

import (
	"errors"
	"testing"
	"time"

	"pet-adoption-api/internal/domain/pets"
)

func validAnswers() Answers {
	return Answers{
		Lifestyle:        "house",
		HomeSize:         "large",
		EnergyLevel:      "high",
		SocialPreference: "high",
		TimeAvailable:    "plenty",
	}
}

func TestValidateIncomplete(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Answers)
	}{
		{"missing lifestyle", func(a *Answers) { a.Lifestyle = "" }},
		{"missing homesize", func(a *Answers) { a.HomeSize = "" }},
		{"missing energylevel", func(a *Answers) { a.EnergyLevel = "" }},
		{"missing socialpreference", func(a *Answers) { a.SocialPreference = "" }},
		{"missing timeavailable", func(a *Answers) { a.TimeAvailable = "   " }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := validAnswers()
			tc.mutate(&a)
			if err := a.Validate(); !errors.Is(err, ErrIncompleteAnswers) {
				t.Fatalf("expected ErrIncompleteAnswers, got %v", err)
			}
		})
	}
}

func TestValidateBadValue(t *testing.T) {
	a := validAnswers()
	a.EnergyLevel = "medium"

	err := a.Validate()
	if err == nil {
		t.Fatal("expected error for unknown answer value")
	}
	if errors.Is(err, ErrIncompleteAnswers) {
		t.Fatal("bad value is not an incomplete set")
	}
}

func TestValidateCaseInsensitive(t *testing.T) {
	a := validAnswers()
	a.Lifestyle = "  House "
	a.EnergyLevel = "HIGH"

	if err := a.Validate(); err != nil {
		t.Fatalf("expected valid answers, got %v", err)
	}
}

func TestRankExcludesAdopted(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	all := []pets.Pet{
		{ID: "a", Species: "dog", Mood: pets.MoodPlayful, CreatedAt: base},
		{ID: "b", Species: "dog", Mood: pets.MoodPlayful, IsAdopted: true, CreatedAt: base},
	}

	matches := Rank(all, validAnswers())
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
	if matches[0].Pet.ID != "a" {
		t.Fatalf("matched %q, want a", matches[0].Pet.ID)
	}
}

func TestRankOrdering(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	young := 1

	// Con respuestas "house/large/high/high/plenty":
	// perro joven juguetón > perro dormilón > gato dormilón (score 0, afuera).
	all := []pets.Pet{
		{ID: "sleepy-dog", Species: "dog", Mood: pets.MoodSleepy, CreatedAt: base},
		{ID: "playful-pup", Species: "dog", Mood: pets.MoodPlayful, Age: &young, CreatedAt: base},
		{ID: "sleepy-cat", Species: "cat", Mood: pets.MoodSleepy, CreatedAt: base},
	}

	matches := Rank(all, validAnswers())
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].Pet.ID != "playful-pup" {
		t.Fatalf("top match = %q, want playful-pup", matches[0].Pet.ID)
	}
	if matches[1].Pet.ID != "sleepy-dog" {
		t.Fatalf("second match = %q, want sleepy-dog", matches[1].Pet.ID)
	}
	if matches[0].Score <= matches[1].Score {
		t.Fatalf("scores not descending: %d then %d", matches[0].Score, matches[1].Score)
	}
}

func TestRankTieBreakOldestFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	all := []pets.Pet{
		{ID: "newer", Species: "dog", Mood: pets.MoodPlayful, CreatedAt: base.Add(time.Hour)},
		{ID: "older", Species: "dog", Mood: pets.MoodPlayful, CreatedAt: base},
	}

	matches := Rank(all, validAnswers())
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].Pet.ID != "older" {
		t.Fatalf("tie break should favor the older listing, got %q", matches[0].Pet.ID)
	}
}

func TestRankDeterministic(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	all := []pets.Pet{
		{ID: "a", Species: "dog", Mood: pets.MoodPlayful, CreatedAt: base},
		{ID: "b", Species: "dog", Mood: pets.MoodHappy, CreatedAt: base.Add(time.Minute)},
		{ID: "c", Species: "cat", Mood: pets.MoodHappy, CreatedAt: base.Add(2 * time.Minute)},
	}

	first := Rank(all, validAnswers())
	for i := 0; i < 5; i++ {
		again := Rank(all, validAnswers())
		if len(again) != len(first) {
			t.Fatalf("run %d: len = %d, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j].Pet.ID != first[j].Pet.ID || again[j].Score != first[j].Score {
				t.Fatalf("run %d: order changed at %d", i, j)
			}
		}
	}
}
