package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/CoderHarshaVardhan/playX/internal/api/handlers"
	mw "github.com/CoderHarshaVardhan/playX/internal/api/middleware"
	"github.com/CoderHarshaVardhan/playX/internal/services"
)

type Dependencies struct {
	Authenticator  services.Authenticator
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool

	HealthHandler *handlers.HealthHandler
	AuthHandler   *handlers.AuthHandler
	UsersHandler  *handlers.UsersHandler
	MetaHandler   *handlers.MetaHandler
	SlotsHandler  *handlers.SlotsHandler

	// SlotRoom serves the slot WebSocket; nil disables the route.
	SlotRoom http.Handler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	if dep.TrustProxy {
		r.Use(chimid.RealIP)
	}
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS(dep.CORSOrigins))

	hh := dep.HealthHandler
	if hh == nil {
		hh = handlers.NewHealthHandler(nil)
	}
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	if dep.SlotRoom != nil {
		r.Method(http.MethodGet, "/ws/slots/{id}", dep.SlotRoom)
	}

	r.Route("/api/v1", func(api chi.Router) {
		if dep.RateLimitRPS > 0 {
			api.Use(mw.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))
		}
		api.Use(chimid.Compress(5))

		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", dep.AuthHandler.Register)
			ar.Get("/verify/{token}", dep.AuthHandler.VerifyEmail)
			ar.Post("/login", dep.AuthHandler.Login)
			ar.Post("/logout", dep.AuthHandler.Logout)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.Authenticator))

			protected.Route("/users", func(ur chi.Router) {
				ur.Get("/me", dep.UsersHandler.Me)
				ur.Put("/profile", dep.UsersHandler.UpdateProfile)
			})

			protected.Route("/meta", func(mr chi.Router) {
				mr.Get("/sports", dep.MetaHandler.Sports)
				mr.Get("/venues", dep.MetaHandler.Venues)
			})

			protected.Route("/slots", func(sr chi.Router) {
				sr.Post("/", dep.SlotsHandler.Create)
				sr.Get("/", dep.SlotsHandler.List)
				sr.Get("/my-slots", dep.SlotsHandler.Mine)
				sr.Get("/{id}", dep.SlotsHandler.Get)
				sr.Post("/{id}/join", dep.SlotsHandler.Join)
				sr.Post("/{id}/leave", dep.SlotsHandler.Leave)
				sr.Post("/{id}/cancel", dep.SlotsHandler.Cancel)
			})
		})
	})

	return r
}
