package controllers

import (
	"net/http"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/responses"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/validators"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/ledger"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
)

// DailySales returns ledger rows for from..to inclusive. to defaults to from.
func DailySales(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseQueryDate(r, "from", "")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if from == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "from is required").
				WithDetails(map[string]any{"field": "from"}))
			return
		}
		to, err := validators.ParseQueryDate(r, "to", from)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		records, err := svc.Range(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}
