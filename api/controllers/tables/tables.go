package tables

import (
	"net/http"
	"time"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/middleware"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/responses"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/validators"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/lifecycle"
	internaltables "github.com/rohitappsaga-debug/Rms-testing-sub001/internal/tables"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
)

type createTableRequest struct {
	Number   int `json:"number" validate:"gte=1"`
	Capacity int `json:"capacity" validate:"gte=1,lte=50"`
}

type reserveRequest struct {
	ReservedBy string    `json:"reservedBy" validate:"required,max=120"`
	At         time.Time `json:"at"`
}

type groupRequest struct {
	TableNumbers []int `json:"tableNumbers" validate:"required,min=2,dive,gte=1"`
	Primary      int   `json:"primary" validate:"gte=1"`
}

type mergeRequest struct {
	SourceTableNumber int `json:"sourceTableNumber" validate:"gte=1"`
	TargetTableNumber int `json:"targetTableNumber" validate:"gte=1"`
}

type mergeResponse struct {
	Order     *models.Order `json:"order"`
	Cancelled *models.Order `json:"cancelled,omitempty"`
}

func List(store internaltables.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables, err := store.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tables)
	}
}

func Detail(store internaltables.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := validators.ParseIntParam(r, "number")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		table, err := store.Get(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, table)
	}
}

func Create(store internaltables.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTableRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		table, err := store.CreateTable(r.Context(), req.Number, req.Capacity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, table)
	}
}

// Delete removes a free, ungrouped table that no order references.
func Delete(store internaltables.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := validators.ParseIntParam(r, "number")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.DeleteTable(r.Context(), number); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func Reserve(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := validators.ParseIntParam(r, "number")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req reserveRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		table, err := svc.ReserveTable(r.Context(), lifecycle.ReserveInput{
			TableNumber: number,
			ReservedBy:  validators.SanitizeString(req.ReservedBy, 120),
			At:          req.At,
			Actor:       middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, table)
	}
}

func CancelReservation(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := validators.ParseIntParam(r, "number")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		table, err := svc.CancelReservation(r.Context(), lifecycle.CancelReservationInput{
			TableNumber: number,
			Actor:       middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, table)
	}
}

func Group(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		members, err := svc.GroupTables(r.Context(), lifecycle.GroupInput{
			TableNumbers: req.TableNumbers,
			Primary:      req.Primary,
			Actor:        middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, members)
	}
}

func Ungroup(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := validators.ParseUUIDParam(r, "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		members, err := svc.UngroupTables(r.Context(), lifecycle.UngroupInput{
			GroupID: groupID,
			Actor:   middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, members)
	}
}

// Merge moves the source table's open order onto the target table.
func Merge(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req mergeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.MergeOrder(r.Context(), lifecycle.MergeInput{
			SourceTableNumber: req.SourceTableNumber,
			TargetTableNumber: req.TargetTableNumber,
			Actor:             middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mergeResponse{Order: result.Order, Cancelled: result.Cancelled})
	}
}
