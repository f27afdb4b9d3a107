package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "samtech/internal/log"
)

// RouteOptions tunes the throttles applied by Mount.
type RouteOptions struct {
	LoginMax    int
	LoginWindow time.Duration
}

func loginLimiter(o RouteOptions) fiber.Handler {
	limit, window := o.LoginMax, o.LoginWindow
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return render(c, fiber.StatusTooManyRequests, fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	})
}

// Mount registers every route on app.
func Mount(app *fiber.App, d *Deps, o RouteOptions) {
	admin := RequireAdmin(d.admins, false)
	customer := RequireCustomer(d.auth)
	throttle := loginLimiter(o)

	if d.MediaHandler != nil {
		app.Get("/media/*", d.MediaHandler.Serve)
	}
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	api := app.Group("/api")

	// Admin auth
	api.Post("/auth/login", throttle, d.AdminHandler.Login)
	api.Post("/auth/signup", admin, d.AdminHandler.Signup)
	api.Post("/auth/change-password", admin, d.AdminHandler.ChangePassword)

	// Cart
	api.Post("/cart", customer, d.CartHandler.Add)
	api.Get("/cart/:userId", customer, d.CartHandler.View)
	api.Delete("/cart/:userId/:productId", customer, d.CartHandler.Remove)
	api.Put("/cart/:userId/:productId", customer, d.CartHandler.SetQuantity)

	// Orders
	api.Post("/orders", customer, d.OrderHandler.Place)
	api.Get("/orders/:userId", customer, d.OrderHandler.History)
	api.Put("/orders/:orderId/status", admin, d.OrderHandler.UpdateStatus)
	api.Get("/clients/orders", admin, d.OrderHandler.AdminList)
	api.Put("/clients/orders/:id/status", admin, d.OrderHandler.UpdateStatus)
	api.Delete("/clients/orders/:id", admin, d.OrderHandler.Delete)

	// Products
	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Post("/products", admin, d.ProductHandler.Create)
	api.Put("/products/:id", admin, d.ProductHandler.Update)
	api.Delete("/products/:id/images/*", admin, d.ProductHandler.DeleteImage)
	api.Delete("/products/:id", admin, d.ProductHandler.Delete)

	// Events
	api.Get("/events", d.EventHandler.List)
	api.Get("/events/:id", d.EventHandler.Detail)
	api.Post("/events", admin, d.EventHandler.Create)
	api.Put("/events/:id", admin, d.EventHandler.Update)
	api.Delete("/events/:id/images/*", admin, d.EventHandler.DeleteImage)
	api.Delete("/events/:id", admin, d.EventHandler.Delete)

	// Blogs
	api.Get("/blogs", d.BlogHandler.List)
	api.Get("/blogs/:id", d.BlogHandler.Detail)
	api.Post("/blogs", admin, d.BlogHandler.Create)
	api.Put("/blogs/:id", admin, d.BlogHandler.Update)
	api.Delete("/blogs/:id", admin, d.BlogHandler.Delete)

	// Careers
	api.Get("/careers", d.CareerHandler.List)
	api.Get("/careers/:id", d.CareerHandler.Detail)
	api.Post("/careers", admin, d.CareerHandler.Create)
	api.Put("/careers/:id", admin, d.CareerHandler.Update)
	api.Delete("/careers/:id", admin, d.CareerHandler.Delete)

	// Messages; the stream is registered before /:id so it is not shadowed.
	api.Post("/messages", d.MessageHandler.Create)
	api.Get("/messages/stream/updates", RequireAdmin(d.admins, true), d.MessageHandler.Stream)
	api.Get("/messages", admin, d.MessageHandler.List)
	api.Get("/messages/:id", admin, d.MessageHandler.Open)
	api.Patch("/messages/:id/read", admin, d.MessageHandler.MarkRead)
	api.Delete("/messages/:id", admin, d.MessageHandler.Delete)

	// Customer accounts
	clients := app.Group("/clients/api")
	clients.Post("/register", throttle, d.AuthHandler.Register)
	clients.Post("/login", throttle, d.AuthHandler.Login)
	clients.Post("/logout", d.AuthHandler.Logout)
	clients.Get("/user", customer, d.AuthHandler.Me)
	clients.Put("/user", customer, d.AuthHandler.UpdateProfile)
	clients.Put("/user/password", customer, d.AuthHandler.ChangePassword)

	app.Use(func(c *fiber.Ctx) error {
		return render(c, fiber.StatusNotFound, fiber.Map{"error": "Route not found"})
	})
}
