package router

import (
	"database/sql"
	"net/http"
	"time"

	"pet-adoption-api/internal/adapters/auth/jwtauth"
	mem "pet-adoption-api/internal/adapters/storage/memory"
	pg "pet-adoption-api/internal/adapters/storage/postgres"
	"pet-adoption-api/internal/domain/admin"
	"pet-adoption-api/internal/domain/adoption"
	"pet-adoption-api/internal/domain/matching"
	"pet-adoption-api/internal/domain/pets"
	"pet-adoption-api/internal/domain/users"
	"pet-adoption-api/internal/middleware"
	"pet-adoption-api/internal/moodwatch"
	"pet-adoption-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// AuthVerifier puede ser nil (modo dev: headers X-Debug-User-*).
	AuthVerifier auth.AuthVerifier
	// TokenIssuer para login/signup. Si es nil se arma un manager local
	// con un secret de dev (no usar así en prod).
	TokenIssuer auth.TokenIssuer

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: storage de imágenes. nil => alta solo con JSON.
	Images pets.ImageStore

	Logger zerolog.Logger

	// Mood watch
	MoodInterval time.Duration
	SadAfter     time.Duration
	MoodWebhook  string
}

// New arma el router y el watcher de ánimo.
// El caller decide si corre el watcher (Run) y con qué contexto.
func New(opts Options) (http.Handler, *moodwatch.Watcher) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		userRepo users.Repository
		petRepo  pets.Repository
	)

	if opts.DB != nil {
		userRepo = pg.NewUsersRepo(opts.DB)
		petRepo = pg.NewPetsRepo(opts.DB)
	} else {
		userRepo = mem.NewUserRepo()
		petRepo = mem.NewPetRepo()
	}

	issuer := opts.TokenIssuer
	if issuer == nil {
		issuer = jwtauth.NewManager("dev-secret-change-me", 24*time.Hour)
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo)
	petsSvc := pets.NewService(petRepo, usersSvc)
	adminSvc := admin.NewService(usersSvc, petsSvc)

	var notifier moodwatch.Notifier
	if opts.MoodWebhook != "" {
		notifier = moodwatch.NewWebhookNotifier(opts.MoodWebhook)
	}
	watcher := moodwatch.New(petsSvc, moodwatch.Options{
		Interval: opts.MoodInterval,
		SadAfter: opts.SadAfter,
		Notifier: notifier,
		Logger:   opts.Logger,
	})

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, issuer)
	pets.RegisterRoutes(r, petsSvc, opts.Images)
	matching.RegisterRoutes(r, petsSvc)
	adoption.RegisterRoutes(r)
	admin.RegisterRoutes(r, adminSvc)
	moodwatch.RegisterRoutes(r, watcher)

	return r, watcher
}
