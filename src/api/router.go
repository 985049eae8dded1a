package api

import (
	"net/http"

	"fintrack-server/src/advisor"
	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRouter(pool *pgxpool.Pool, advisorService *advisor.Service) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth", handlers.Register(pool))
		r.Post("/login", handlers.Login(pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// User
			r.Get("/profile", handlers.GetProfile(pool))

			// Transactions
			r.Post("/transaction", handlers.CreateTransaction(pool))
			r.Get("/transactions", handlers.GetTransactions(pool))
			r.Get("/transaction/{transaction_id}", handlers.GetTransactionByID(pool))
			r.Put("/transaction/{transaction_id}", handlers.UpdateTransaction(pool))
			r.Delete("/transaction/{transaction_id}", handlers.DeleteTransaction(pool))
			r.Get("/balance", handlers.GetBalanceSummary(pool))

			// Categories
			r.Get("/categories", handlers.GetCategories(pool))
			r.Post("/categories", handlers.CreateCategory(pool))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(pool))

			// Advisor
			r.Post("/advisor/chat", handlers.Chat(advisorService))
			r.Get("/advisor/history", handlers.GetChatHistory(advisorService))
			r.Delete("/advisor/history", handlers.ClearChatHistory(advisorService))
			r.Get("/advisor/health", handlers.AdvisorHealth())
		})
	})

	return r
}
