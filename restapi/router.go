// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"github.com/baristahub/baristahub-backend/database"
	"github.com/baristahub/baristahub-backend/model"
	"github.com/baristahub/baristahub-backend/restapi/modules/applications"
	"github.com/baristahub/baristahub-backend/restapi/modules/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

var logger = database.InitLogger()

// Limiters holds one login limiter per login endpoint. Nil fields disable throttling.
type Limiters struct {
	Customer auth.LoginLimiter
	Barista  auth.LoginLimiter
	Admin    auth.LoginLimiter
}

// Deps are the collaborators the routes close over
type Deps struct {
	Store     database.Store
	Limiters  Limiters
	Publisher applications.EventPublisher
	Schema    graphql.Schema
}

// SetupRoutes configures all REST API routes and the GraphQL endpoint.
// CORS is handled globally in internal/api/fiber.go.
func SetupRoutes(app *fiber.App, deps Deps) {
	api := app.Group("/api")

	// Customer & barista accounts
	users := api.Group("/users")
	users.Post("/register", auth.Register(deps.Store))
	users.Post("/login", auth.Login(deps.Store, deps.Limiters.Customer, model.RoleCustomer))
	users.Post("/login/cheif", auth.Login(deps.Store, deps.Limiters.Barista, model.RoleBarista))
	users.Post("/logout", auth.Logout())
	users.Get("/me", auth.RequireAuth, auth.Me(deps.Store))

	// Barista application
	barista := api.Group("/barista-auth", auth.RequireAuth, auth.RequireRole(model.RoleBarista))
	barista.Get("/status", applications.Status(deps.Store))
	barista.Post("/profile", applications.SubmitProfile(deps.Store))

	// Admin
	admin := api.Group("/admin")
	admin.Post("/register", auth.OptionalAuth, auth.AdminRegister(deps.Store))
	admin.Post("/login", auth.AdminLogin(deps.Store, deps.Limiters.Admin))

	admin.Post("/graphql", auth.RequireAuth, auth.RequireRole(model.RoleAdmin), GraphQLHandler(deps.Schema))

	review := admin.Group("/applications", auth.RequireAuth, auth.RequireRole(model.RoleAdmin))
	review.Get("/", applications.ListApplications(deps.Store))
	review.Put("/:key", applications.Review(deps.Store, deps.Publisher))

	logger.Info("API routes initialized successfully")
}
