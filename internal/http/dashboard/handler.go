package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/moneymanager/internal/http/respond"
	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

// DashboardRoutes serves /dashboard and /dashboard/{period}.
func (h *Handler) DashboardRoutes(r chi.Router) {
	r.Get("/", h.stats)
	r.Get("/{period}", h.stats)
}

// SummaryRoutes serves /summary/categories?period=.
func (h *Handler) SummaryRoutes(r chi.Router) {
	r.Get("/categories", h.categories)
}

type statsResponse struct {
	TotalIncome  json.Number `json:"totalIncome"`
	TotalExpense json.Number `json:"totalExpense"`
	Balance      json.Number `json:"balance"`
}

type categoryResponse struct {
	Category    string           `json:"category"`
	Type        transaction.Type `json:"type"`
	TotalAmount json.Number      `json:"totalAmount"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.DashboardStats(r.Context(), chi.URLParam(r, "period"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, statsResponse{
		TotalIncome:  json.Number(stats.TotalIncome.String()),
		TotalExpense: json.Number(stats.TotalExpense.String()),
		Balance:      json.Number(stats.Balance.String()),
	})
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.CategorySummary(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]categoryResponse, len(totals))
	for i, t := range totals {
		resp[i] = categoryResponse{
			Category:    t.Category,
			Type:        t.Type,
			TotalAmount: json.Number(t.TotalAmount.String()),
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}
