package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body types.SuccessEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "world", body.Data.(map[string]any)["hello"])
}

func TestWriteCreatedAndNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	WriteCreated(w, map[string]int{"number": 4})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	WriteNoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   pkgerrors.Code
		msg    string
	}{
		{"validation", pkgerrors.New(pkgerrors.CodeValidation, "bad input").WithDetails(map[string]any{"field": "items"}), http.StatusBadRequest, pkgerrors.CodeValidation, "bad input"},
		{"not found", pkgerrors.New(pkgerrors.CodeNotFound, "table not found"), http.StatusNotFound, pkgerrors.CodeNotFound, "table not found"},
		{"conflict", pkgerrors.New(pkgerrors.CodeConflict, "table already has an open order"), http.StatusConflict, pkgerrors.CodeConflict, "table already has an open order"},
		{"already settled", pkgerrors.New(pkgerrors.CodeAlreadySettled, "order already settled"), http.StatusBadRequest, pkgerrors.CodeAlreadySettled, "order already settled"},
		{"dependency", pkgerrors.New(pkgerrors.CodeDependency, "redis down"), http.StatusServiceUnavailable, pkgerrors.CodeDependency, "dependency unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(context.Background(), logger.Nop(), w, tt.err)

			require.Equal(t, tt.status, w.Code)
			var body types.ErrorEnvelope
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, string(tt.code), body.Error.Code)
			assert.Equal(t, tt.msg, body.Error.Message)
		})
	}
}

func TestWriteErrorKeepsDetails(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "bad input").
		WithDetails(map[string]any{"field": "quantity"})
	WriteError(context.Background(), nil, w, err)

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.NotNil(t, body.Error.Details)
	assert.Equal(t, "quantity", body.Error.Details.(map[string]any)["field"])
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, string(pkgerrors.CodeInternal), body.Error.Code)
	assert.Equal(t, "internal server error", body.Error.Message)
	assert.Nil(t, body.Error.Details)
}
