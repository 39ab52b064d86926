package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/responses"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/validators"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/menu"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
)

type createMenuItemRequest struct {
	Name      string          `json:"name" validate:"required,max=120"`
	Category  string          `json:"category" validate:"required,max=60"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
	Available *bool           `json:"available,omitempty"`
}

// MenuItems lists the catalogue; ?category= and ?available=true narrow it.
func MenuItems(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		available, err := validators.ParseQueryBool(r, "available")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter := menu.ListFilter{
			Category:      strings.TrimSpace(r.URL.Query().Get("category")),
			AvailableOnly: available != nil && *available,
		}
		items, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func CreateMenuItem(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMenuItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		available := true
		if req.Available != nil {
			available = *req.Available
		}
		item, err := svc.Create(r.Context(), menu.CreateInput{
			Name:      validators.SanitizeString(req.Name, 120),
			Category:  validators.SanitizeString(req.Category, 60),
			Price:     req.Price,
			Available: available,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, item)
	}
}
