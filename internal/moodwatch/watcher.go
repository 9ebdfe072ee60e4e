package moodwatch

import (
	"context"
	"sync"
	"time"

	"pet-adoption-api/internal/domain/pets"

	"github.com/rs/zerolog"
)

// PetSource es lo que el watcher necesita del módulo pets.
type PetSource interface {
	ListSadUnadopted(ctx context.Context) ([]pets.Pet, error)
	MarkStaleSad(ctx context.Context, cutoff time.Time) (int, error)
}

// Notifier recibe la lista de mascotas que necesitan atención.
// Puede ser nil (solo log).
type Notifier interface {
	NotifySadPets(ctx context.Context, sad []pets.Pet) error
}

// Watcher es la versión server-side del poll de ánimo: una tarea periódica
// cancelable que (1) pasa a "sad" los listings que llevan demasiado tiempo
// sin adopción y (2) publica el snapshot de tristes-sin-adoptar.
//
// Ticks perdidos o avisos duplicados son tolerables; un fallo del barrido
// se loguea y se ignora.
type Watcher struct {
	src      PetSource
	notifier Notifier
	log      zerolog.Logger

	interval time.Duration
	sadAfter time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	current []pets.Pet
}

type Options struct {
	Interval time.Duration // default 60s
	SadAfter time.Duration // default 72h
	Notifier Notifier
	Logger   zerolog.Logger
}

func New(src PetSource, opts Options) *Watcher {
	interval := opts.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	sadAfter := opts.SadAfter
	if sadAfter <= 0 {
		sadAfter = 72 * time.Hour
	}

	return &Watcher{
		src:      src,
		notifier: opts.Notifier,
		log:      opts.Logger,
		interval: interval,
		sadAfter: sadAfter,
		now:      time.Now,
	}
}

// Run ejecuta el barrido hasta que el contexto se cancele.
// La cancelación está garantizada: el ticker se libera al salir.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Primer barrido inmediato para no esperar un intervalo entero al arrancar.
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Debug().Msg("mood watcher stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Watcher) sweep(ctx context.Context) {
	cutoff := w.now().Add(-w.sadAfter)

	changed, err := w.src.MarkStaleSad(ctx, cutoff)
	if err != nil {
		w.log.Warn().Err(err).Msg("mood sweep: mark stale failed")
		// seguimos: el snapshot igual puede refrescarse
	} else if changed > 0 {
		w.log.Info().Int("pets", changed).Msg("mood sweep: marked stale listings sad")
	}

	sad, err := w.src.ListSadUnadopted(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("mood sweep: list failed")
		return
	}

	w.mu.Lock()
	w.current = sad
	w.mu.Unlock()

	if len(sad) == 0 {
		return
	}

	w.log.Info().Int("pets", len(sad)).Msg("pets need attention")
	if w.notifier != nil {
		if err := w.notifier.NotifySadPets(ctx, sad); err != nil {
			w.log.Warn().Err(err).Msg("mood sweep: notify failed")
		}
	}
}

// Snapshot devuelve la última lista de atención conocida.
func (w *Watcher) Snapshot() []pets.Pet {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]pets.Pet, len(w.current))
	copy(out, w.current)
	return out
}
