package cabinets

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chem_inventory/internal/config"
	"chem_inventory/internal/handlers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postCabinet(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	handler := NewCabinetsHandler(&handlers.Handler{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cabinets", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	handler.RegisterCabinet(w, req)
	return w
}

func validCabinet() RegisterCabinetRequest {
	return RegisterCabinetRequest{
		Area:        "Lab 1",
		Name:        "Acids",
		ShelfHeight: 4,
		DoorsLeft:   1,
		DoorsRight:  1,
		Columns:     2,
	}
}

func TestRegisterCabinetValidation(t *testing.T) {
	cases := map[string]func(*RegisterCabinetRequest){
		"missing area":    func(r *RegisterCabinetRequest) { r.Area = "" },
		"blank area":      func(r *RegisterCabinetRequest) { r.Area = "   " },
		"missing name":    func(r *RegisterCabinetRequest) { r.Name = "" },
		"zero shelves":    func(r *RegisterCabinetRequest) { r.ShelfHeight = 0 },
		"zero columns":    func(r *RegisterCabinetRequest) { r.Columns = 0 },
		"no doors":        func(r *RegisterCabinetRequest) { r.DoorsLeft = 0; r.DoorsRight = 0 },
		"negative doors":  func(r *RegisterCabinetRequest) { r.DoorsLeft = -1 },
		"negative shelf":  func(r *RegisterCabinetRequest) { r.ShelfHeight = -2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validCabinet()
			mutate(&req)
			w := postCabinet(t, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp config.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, config.ErrKindValidation, resp.Kind)
		})
	}
}

func TestRegisterCabinetRejectsInvalidBody(t *testing.T) {
	handler := NewCabinetsHandler(&handlers.Handler{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cabinets", bytes.NewReader([]byte("{broken")))
	w := httptest.NewRecorder()
	handler.RegisterCabinet(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCabinetRequiresValidID(t *testing.T) {
	handler := NewCabinetsHandler(&handlers.Handler{})

	for _, query := range []string{"", "?id=", "?id=abc", "?id=0", "?id=-3"} {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/cabinets"+query, nil)
		w := httptest.NewRecorder()
		handler.DeleteCabinet(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
	}
}
