// Package api wires the HTTP surface: global middleware and route groups.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	v1 "cryptidwatch/internal/api/v1"
	"cryptidwatch/internal/auth"
	"cryptidwatch/pkg/logger"
)

// RegisterRoutes installs middleware and every route group on the app.
func RegisterRoutes(app *fiber.App, h *v1.Handlers, log *logger.Logger) {
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(compress.New())
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
	}))
	app.Use(log.Middleware())
	app.Use(logger.SetupLogger(log))

	api := app.Group("/api")

	accounts := api.Group("/accounts")
	accounts.Post("/register", h.Register)
	accounts.Post("/forgot", h.Forgot)
	accounts.Post("/forgot/verify", h.ForgotVerify)
	accounts.Post("/reset", h.Reset)

	users := api.Group("/users")
	users.Post("/login", h.Login)
	users.Get("/public/:id", h.PublicUser)
	users.Get("/me", auth.RequireAuth(), h.Me)

	profile := api.Group("/profile")
	profile.Get("/public/:id", h.PublicProfile)
	profile.Get("/badges", auth.RequireAuth(), h.MyBadges)
	profile.Get("/stats", auth.RequireAuth(), h.MyStats)
	profile.Put("/", auth.RequireAuth(), h.UpdateProfile)

	friends := api.Group("/friends", auth.RequireAuth())
	friends.Get("/", h.ListFriends)
	friends.Post("/:id", h.ToggleFriend)

	discuss := api.Group("/discuss")
	discuss.Get("/posts", h.ListPosts)
	discuss.Post("/posts/:id/comment", auth.RequireAuth(), h.AddComment)
	discuss.Post("/posts/:id/upvote", auth.RequireAuth(), h.Upvote)
	discuss.Post("/posts/:id/downvote", auth.RequireAuth(), h.Downvote)

	moderation := api.Group("/moderation", auth.RequireAuth())
	moderation.Post("/flags", h.CreateFlag)
	moderation.Get("/flags", h.ListFlags)

	api.Get("/sightings", h.ListSightings)
	api.Get("/sightings/:id", h.GetSighting)
	api.Post("/reports", auth.RequireAuth(), h.SubmitReport)
	api.Get("/filters/creature", h.FilterByCreature)

	ratings := api.Group("/ratings", auth.RequireAuth())
	ratings.Get("/:sighting_id", h.GetRating)
	ratings.Post("/:sighting_id", h.SubmitRating)

	api.Get("/creatures/:name/averages", h.CreatureAverages)
	api.Post("/uploads", auth.RequireAuth(), h.Upload)
}
