package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/moneymanager/internal/http/dashboard"
	"github.com/MrJamesThe3rd/moneymanager/internal/http/export"
	"github.com/MrJamesThe3rd/moneymanager/internal/http/importcsv"
	"github.com/MrJamesThe3rd/moneymanager/internal/http/transaction"
)

func New(
	allowedOrigins []string,
	transactionsV1 *transaction.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
	dashboardV1 *dashboard.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Route("/import", importV1.Routes)
			r.Route("/export", exportV1.Routes)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})
		})

		r.Route("/dashboard", dashboardV1.DashboardRoutes)
		r.Route("/summary", dashboardV1.SummaryRoutes)
	})

	return router
}
