package controllers

import (
	"net/http"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/middleware"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/responses"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/validators"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/lifecycle"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
)

type refundRequest struct {
	Reason string `json:"reason" validate:"required,max=200"`
}

type refundResponse struct {
	Payment *models.PaymentTransaction `json:"payment"`
	Order   *models.Order              `json:"order"`
}

func RefundPayment(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID, err := validators.ParseUUIDParam(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req refundRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.RefundPayment(r.Context(), lifecycle.RefundInput{
			PaymentID: paymentID,
			Reason:    validators.SanitizeString(req.Reason, 200),
			Actor:     middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, refundResponse{Payment: result.Payment, Order: result.Order})
	}
}
