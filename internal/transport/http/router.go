package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/storefront-api/internal/application/booking"
	"github.com/storefront-api/internal/application/catalog"
	"github.com/storefront-api/internal/application/order"
	"github.com/storefront-api/internal/application/phoneauth"
	"github.com/storefront-api/internal/application/profile"
	"github.com/storefront-api/internal/application/session"
	"github.com/storefront-api/internal/application/theme"
	"github.com/storefront-api/internal/config"
	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/storefront-api/internal/infrastructure/jwt"
	s3infra "github.com/storefront-api/internal/infrastructure/s3"
	"github.com/storefront-api/internal/infrastructure/sns"
	"github.com/storefront-api/internal/transport/http/handler"
	appmiddleware "github.com/storefront-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	VerificationRepo *dynamo.VerificationRepo
	SessionRepo      *dynamo.SessionRepo
	ProfileRepo      *dynamo.ProfileRepo
	ItemRepo         *dynamo.ItemRepo
	OrderRepo        *dynamo.OrderRepo
	BookingRepo      *dynamo.BookingRepo
	ThemeRepo        *dynamo.ThemeRepo
	S3Store          *s3infra.Store
	SMSSender        sns.SMSSender
	JWTProvider      *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to the OTP endpoints, which
	// are the most abusable public surface.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	policy := phoneauth.Policy{
		CodeLength:    cfg.CodeLength,
		CodeTTL:       cfg.CodeTTL,
		MaxAttempts:   cfg.MaxAttempts,
		IssueCooldown: cfg.IssueCooldown,
		SessionTTL:    cfg.SessionTTL,
		AdminPhones:   cfg.AdminPhones,
	}

	phoneAuthSvc := phoneauth.NewService(phoneauth.ServiceDeps{
		VerificationRepo: deps.VerificationRepo,
		SessionRepo:      deps.SessionRepo,
		ProfileRepo:      deps.ProfileRepo,
		SMSSender:        deps.SMSSender,
		JWTProvider:      deps.JWTProvider,
		Policy:           policy,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo: deps.SessionRepo,
		JWTProvider: deps.JWTProvider,
		SessionTTL:  cfg.SessionTTL,
	})
	profileSvc := profile.NewService(deps.ProfileRepo)
	catalogSvc := catalog.NewService(deps.ItemRepo, deps.S3Store)
	orderSvc := order.NewService(deps.OrderRepo, deps.ItemRepo)
	bookingSvc := booking.NewService(booking.ServiceDeps{BookingRepo: deps.BookingRepo})
	themeSvc := theme.NewService(deps.ThemeRepo, deps.S3Store)

	healthH := handler.NewHealthHandler()
	phoneAuthH := handler.NewPhoneAuthHandler(phoneAuthSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	profileH := handler.NewProfileHandler(profileSvc)
	itemH := handler.NewItemHandler(catalogSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	bookingH := handler.NewBookingHandler(bookingSvc)
	themeH := handler.NewThemeHandler(themeSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.Get("/shop/items", itemH.List)
		r.Get("/shop/items/{id}", itemH.Get)
		r.Get("/shop/items/{id}/image", itemH.ImageURL)
		r.Get("/shop/theme", themeH.Get)
		r.Get("/shop/theme/logo", themeH.LogoURL)

		r.With(sensitiveRL.Limit).Post("/auth/phone/request", phoneAuthH.RequestCode)
		r.With(sensitiveRL.Limit).Post("/auth/phone/verify", phoneAuthH.VerifyCode)
		r.Post("/sessions/refresh", sessionH.Refresh)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/profile", profileH.Get)
			r.Put("/profile", profileH.Update)

			r.Post("/orders", orderH.Create)
			r.Get("/orders", orderH.ListMine)
			r.Get("/orders/{id}", orderH.GetMine)
			r.Delete("/orders/{id}", orderH.CancelMine)

			r.Post("/bookings", bookingH.Create)
			r.Get("/bookings", bookingH.ListMine)
			r.Get("/bookings/{id}", bookingH.GetMine)
			r.Delete("/bookings/{id}", bookingH.CancelMine)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/admin/items", itemH.Create)
				r.Put("/admin/items/{id}", itemH.Update)
				r.Delete("/admin/items/{id}", itemH.Delete)
				r.Post("/admin/items/{id}/image", itemH.UploadImage)

				r.Get("/admin/orders", orderH.ListByPhone)
				r.Put("/admin/orders/{id}/status", orderH.SetStatus)

				r.Put("/admin/bookings/{id}/confirm", bookingH.Confirm)
				r.Put("/admin/bookings/{id}/cancel", bookingH.Cancel)

				r.Put("/admin/theme", themeH.Update)
				r.Post("/admin/theme/logo", themeH.UploadLogo)
			})
		})
	})

	return r
}
