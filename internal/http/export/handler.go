package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/moneymanager/internal/export"
	"github.com/MrJamesThe3rd/moneymanager/internal/http/respond"
	txhttp "github.com/MrJamesThe3rd/moneymanager/internal/http/transaction"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download takes the same query parameters as /transactions/filter.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := txhttp.ParseFilter(r.URL.Query())
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	// Buffered so a storage failure can still be reported with a proper status.
	var buf bytes.Buffer

	n, err := h.svc.Export(r.Context(), &buf, filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"", h.now().Format("20060102")))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "rows", n, "error", err)
	}
}
