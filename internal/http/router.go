package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/go_food/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Services groups everything the API delegates to.
type Services struct {
	Cart          CartService
	Checkout      CheckoutService
	Orders        OrderService
	Catalog       CatalogService
	Reviews       ReviewService
	Favorites     FavoriteService
	Profiles      ProfileService
	Notifications NotificationService
}

type RouterConfig struct {
	Tokens         TokenParser
	Metrics        *metrics.ServerMetrics
	MetricsHandler http.Handler
	Log            *slog.Logger
	RequestTimeout time.Duration
}

func NewRouter(svc Services, cfg RouterConfig) chi.Router {
	cartHandler := NewCartHandler(svc.Cart, cfg.Log)
	checkoutHandler := NewCheckoutHandler(svc.Checkout, cfg.Log)
	ordersHandler := NewOrdersHandler(svc.Orders, cfg.Log)
	catalogHandler := NewCatalogHandler(svc.Catalog, svc.Reviews, cfg.Log)
	accountHandler := NewAccountHandler(svc.Favorites, svc.Profiles, svc.Notifications, cfg.Log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(cfg.Log))
	r.Use(middleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(Instrument(cfg.Metrics))
	}
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Authenticate(cfg.Tokens))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{food_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{food_id}", cartHandler.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.PlaceOrder)
			r.Get("/quote", checkoutHandler.Quote)
			r.Get("/promotions", checkoutHandler.ListPromotions)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Get("/{order_id}", ordersHandler.GetOrder)
			r.Post("/{order_id}/buy-again", checkoutHandler.BuyAgain)
		})

		r.Route("/foods", func(r chi.Router) {
			r.Get("/", catalogHandler.ListFoods)
			r.Get("/{food_id}", catalogHandler.GetFood)
			r.Get("/{food_id}/reviews", catalogHandler.ListReviews)
			r.Post("/{food_id}/reviews", catalogHandler.AddReview)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", accountHandler.ListFavorites)
			r.Put("/{food_id}", accountHandler.AddFavorite)
			r.Delete("/{food_id}", accountHandler.RemoveFavorite)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", accountHandler.GetProfile)
			r.Put("/", accountHandler.UpdateProfile)
			r.Get("/shipping-address", accountHandler.GetShippingAddress)
			r.Put("/shipping-address", accountHandler.SaveShippingAddress)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", accountHandler.ListNotifications)
			r.Post("/{id}/read", accountHandler.MarkNotificationRead)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/orders", ordersHandler.ListAllOrders)
			r.Post("/orders/{order_id}/accept", ordersHandler.Accept)
			r.Post("/orders/{order_id}/cancel", ordersHandler.Cancel)
			r.Post("/foods", catalogHandler.CreateFood)
			r.Put("/foods/{food_id}", catalogHandler.UpdateFood)
			r.Delete("/foods/{food_id}", catalogHandler.DeleteFood)
		})
	})

	return r
}
