// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/cache"
	"github.com/olegiv/eventix/internal/identity"
	"github.com/olegiv/eventix/internal/imaging"
	"github.com/olegiv/eventix/internal/imgbb"
	"github.com/olegiv/eventix/internal/middleware"
	"github.com/olegiv/eventix/internal/render"
	"github.com/olegiv/eventix/internal/scheduler"
	"github.com/olegiv/eventix/internal/service"
	"github.com/olegiv/eventix/internal/session"
)

// staticMaxAge is the browser cache lifetime of static assets.
const staticMaxAge = 31536000

// Public pages rate limit, per client IP.
const (
	publicRate  = 10.0
	publicBurst = 20
)

// App is everything the router needs.
type App struct {
	API             *api.Client
	Store           *session.Store
	Bootstrapper    *session.Bootstrapper
	Renderer        *render.Renderer
	Listings        *service.Listings
	Images          *imaging.Processor
	ImgBB           *imgbb.Client
	Scheduler       *scheduler.Scheduler
	Cache           cache.Cacher
	SessionDB       *sql.DB
	LoginProtection *middleware.LoginProtection
	StaticFS        fs.FS
	Version         string

	IsDev          bool
	Addr           string
	SessionSecret  string
	RequestTimeout time.Duration
}

// crudHandlers defines the standard CRUD handler methods.
type crudHandlers struct {
	List     http.HandlerFunc
	NewForm  http.HandlerFunc
	Create   http.HandlerFunc
	EditForm http.HandlerFunc
	Update   http.HandlerFunc
	Delete   http.HandlerFunc
}

// registerCRUD registers standard CRUD routes for a resource.
// Routes: GET /, GET /new, POST /, GET /{id}/edit, POST /{id}, POST /{id}/delete
func registerCRUD(r chi.Router, base, baseID string, h crudHandlers) {
	r.Get(base, h.List)
	r.Get(base+RouteSuffixNew, h.NewForm)
	r.Post(base, h.Create)
	r.Get(baseID+RouteSuffixEdit, h.EditForm)
	r.Post(baseID, h.Update) // HTML forms can't send PUT
	r.Post(baseID+RouteSuffixDelete, h.Delete)
}

// NewRouter builds the HTTP handler of the whole site.
func NewRouter(app App) http.Handler {
	timeout := app.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	pages := NewPagesHandler(app.Renderer)
	gatePages := pages.GatePages()
	authHandler := NewAuthHandler(app.API, app.Store, app.Bootstrapper, app.Renderer, app.LoginProtection)
	eventsHandler := NewEventsHandler(app.API, app.Store, app.Renderer, app.Listings)
	visitorHandler := NewVisitorHandler(app.API, app.Store, app.Renderer)
	profileHandler := NewProfileHandler(app.API, app.Store, app.Renderer)
	organizerHandler := NewOrganizerHandler(app.API, app.Store, app.Renderer, app.Listings, app.Images, app.ImgBB)
	adminHandler := NewAdminHandler(app.API, app.Store, app.Renderer, app.Listings, app.Scheduler, app.Cache)
	healthHandler := NewHealthHandler(app.API, app.SessionDB, app.Cache, app.Version)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(app.SessionSecret), app.Addr, app.IsDev)
	csrfConfig.ErrorHandler = http.HandlerFunc(pages.CSRFFailure)

	// Every page goes through the session; health probes and assets do not.
	withSession := chi.Chain(
		middleware.RequestPath,
		app.Store.Manager().LoadAndSave,
		middleware.Bootstrap(app.Bootstrapper),
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))              // Gzip compression with level 5
	r.Use(chimw.GetHead)                  // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(timeout))    // Per-request timeout, shared by backend calls
	r.Use(middleware.StripTrailingSlash)  // Redirect /path/ to /path (301)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(app.IsDev)))

	r.NotFound(withSession.HandlerFunc(pages.NotFound).ServeHTTP)
	r.MethodNotAllowed(withSession.HandlerFunc(pages.MethodNotAllowed).ServeHTTP)

	// Health probes
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Static assets: cache for 1 year
	if app.StaticFS != nil {
		staticHandler := middleware.StaticCache(staticMaxAge)(http.StripPrefix("/static/", http.FileServer(http.FS(app.StaticFS))))
		r.Handle("/static/*", staticHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(withSession.Handler)
		r.Use(middleware.CSRF(csrfConfig))

		// Public pages
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(publicRate, publicBurst))

			r.Get(RouteRoot, eventsHandler.Home)
			r.Get(RouteEventID, eventsHandler.Show)
			r.Get(RouteEventSlug, eventsHandler.Show)

			r.Get(RouteLogin, authHandler.LoginForm)
			if app.LoginProtection != nil {
				r.With(app.LoginProtection.Middleware()).Post(RouteLogin, authHandler.Login)
			} else {
				r.Post(RouteLogin, authHandler.Login)
			}
			r.Post(RouteLogout, authHandler.Logout)
			r.Get(RouteRegisterVisitor, authHandler.RegisterVisitorForm)
			r.Post(RouteRegisterVisitor, authHandler.RegisterVisitor)
			r.Get(RouteRegisterOrganizer, authHandler.RegisterOrganizerForm)
			r.Post(RouteRegisterOrganizer, authHandler.RegisterOrganizer)
		})

		// Any signed-in user
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(gatePages))

			r.Post(RouteEventComments, eventsHandler.AddComment)
			r.Post(RouteEventLike, eventsHandler.ToggleLike)
			r.Post(RouteCommentEdit, eventsHandler.EditComment)
			r.Post(RouteCommentDelete, eventsHandler.DeleteComment)

			r.Get(RouteProfile, profileHandler.Show)
			r.Post(RouteProfile, profileHandler.Update)

			r.With(middleware.NoStore).Get(RouteMySubscriptions, visitorHandler.MySubscriptions)
			r.With(middleware.PrivateCache(ticketQRMaxAge)).Get(RouteTicketQR, visitorHandler.TicketQR)
		})

		// Visitors
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(identity.RoleVisitor, gatePages))

			r.Post(RouteEventSubscribe, eventsHandler.Subscribe)
			r.Get(RoutePaymentID, visitorHandler.PaymentForm)
			r.Post(RoutePaymentID, visitorHandler.ConfirmPayment)
		})

		r.Route(RouteOrganizer, func(r chi.Router) {
			r.Use(middleware.RequireRole(identity.RoleOrganizer, gatePages))

			r.Get(RouteRoot, organizerHandler.Dashboard)
			registerCRUD(r, routeOrgEvents, routeOrgEventID, crudHandlers{
				List:     organizerHandler.Events,
				NewForm:  organizerHandler.NewEvent,
				Create:   organizerHandler.CreateEvent,
				EditForm: organizerHandler.EditEvent,
				Update:   organizerHandler.UpdateEvent,
				Delete:   organizerHandler.DeleteEvent,
			})
			r.Post(routeOrgCategories, organizerHandler.CreateCategory)
			r.Post(routeOrgCategoryID, organizerHandler.UpdateCategory)
			r.Post(routeOrgCategoryID+RouteSuffixDelete, organizerHandler.DeleteCategory)
			r.Post(routeOrgImages, organizerHandler.UploadImage)
			r.Post(routeOrgImageID+RouteSuffixDelete, organizerHandler.DeleteImage)
			r.Get(routeOrgStats, organizerHandler.Stats)
			r.Get(routeOrgSubscribers, organizerHandler.Subscribers)

			r.Get(routeOrgMembers, organizerHandler.Members)
			r.Post(routeOrgMembers, organizerHandler.CreateMember)
			r.Post(routeOrgMemberID+RouteSuffixDelete, organizerHandler.DeleteMember)

			r.Get(routeOrgScanner, organizerHandler.Scanner)
			r.Post(routeOrgScanner, organizerHandler.Scan)
		})

		r.Route(RouteAdmin, func(r chi.Router) {
			r.Use(middleware.RequireRole(identity.RoleAdmin, gatePages))

			r.Get(RouteRoot, adminHandler.Dashboard)

			r.Get(routeAdminUsers, adminHandler.Users)
			r.Post(routeAdminUserID+routeSuffixRole, adminHandler.SetUserRole)
			r.Post(routeAdminUserID+routeSuffixStatus, adminHandler.SetUserStatus)
			r.Post(routeAdminUserID+RouteSuffixDelete, adminHandler.DeleteUser)

			r.Get(routeAdminEvents, adminHandler.Events)
			r.Post(routeAdminEventID+routeSuffixStatus, adminHandler.SetEventStatus)
			r.Post(routeAdminEventID+routeSuffixFeatured, adminHandler.SetEventFeatured)

			r.Get(routeAdminComments, adminHandler.Comments)
			r.Post(routeAdminCommentID+routeSuffixStatus, adminHandler.SetCommentStatus)

			r.Post(routeAdminCacheWarm, adminHandler.WarmCache)
			r.Post(routeAdminCacheClear, adminHandler.ClearCache)
			r.Get(routeAdminHealth, healthHandler.Details)
		})
	})

	return r
}
