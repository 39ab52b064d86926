package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/responses"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/validators"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/settings"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

// updateSettingsRequest is a partial update; omitted fields keep their value.
type updateSettingsRequest struct {
	TaxRate         *decimal.Decimal        `json:"taxRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	TaxEnabled      *bool                   `json:"taxEnabled,omitempty"`
	Currency        *string                 `json:"currency,omitempty" validate:"omitempty,len=3"`
	DiscountPresets *[]types.DiscountPreset `json:"discountPresets,omitempty"`
}

func GetSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := svc.Get(r.Context(), nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

func UpdateSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.Update(r.Context(), settings.UpdateInput{
			TaxRate:         req.TaxRate,
			TaxEnabled:      req.TaxEnabled,
			Currency:        req.Currency,
			DiscountPresets: req.DiscountPresets,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
