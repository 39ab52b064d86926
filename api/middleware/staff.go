package middleware

import (
	"net/http"
	"strings"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
)

const staffIDHeader = "X-Staff-Id"

const maxStaffIDLength = 64

// StaffContext records the acting staff member from the X-Staff-Id header.
// Authentication happens upstream; the header is trusted as given.
func StaffContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			staffID := strings.TrimSpace(r.Header.Get(staffIDHeader))
			if len(staffID) > maxStaffIDLength {
				staffID = staffID[:maxStaffIDLength]
			}
			if staffID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithStaffID(r.Context(), staffID)
			if logg != nil {
				ctx = logg.WithStaffID(ctx, staffID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
