package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aicaremanager/backend/internal/api/handlers"
	"github.com/aicaremanager/backend/internal/application/services"
	"github.com/aicaremanager/backend/internal/domain/entities"
)

func TestPharmacyHandler_GetOpenStatus(t *testing.T) {
	until := "18:00"
	svc := new(MockPharmacyService)
	svc.On("GetOpenStatus", mock.Anything, mock.MatchedBy(func(req services.PharmacyStatusRequest) bool {
		return req.Region.Province == "서울특별시" &&
			req.Region.District == "종로구" &&
			assert.ObjectsAreEqual([]string{"종로약국", "광화문약국"}, req.Names) &&
			req.NowHHMM != nil && *req.NowHHMM == 1430 &&
			req.UseHoliday &&
			req.FallbackDistrict == "중구"
	})).Return([]entities.PharmacyOpenStatus{
		{Name: "종로약국", IsOpen: entities.OpenStatusOpen, OpenUntil: &until, Source: entities.PharmacySourceAPI},
		{Name: "광화문약국", IsOpen: entities.OpenStatusUnknown, Source: entities.PharmacySourceNoMatch},
	})

	h := handlers.NewPharmacyHandler(svc, true)
	req := httptest.NewRequest(http.MethodGet,
		"/api/pharmacy/open-status?q0=서울특별시&q1=종로구&names=종로약국,%20광화문약국%20,&now=1430&holiday=true&q1_fallback=중구", nil)
	rec := httptest.NewRecorder()

	h.GetOpenStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.Equal(t, "OPEN", body.Results[0]["is_open"])
	assert.Equal(t, "18:00", body.Results[0]["open_until"])
	assert.Nil(t, body.Results[1]["open_until"])
	assert.Equal(t, "no_match", body.Results[1]["source"])
	svc.AssertExpectations(t)
}

func TestPharmacyHandler_Validation(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		message string
	}{
		{"missing q0", "q1=종로구&names=a", "q0 is required"},
		{"missing q1", "q0=서울특별시&names=a", "q1 is required"},
		{"missing names", "q0=서울특별시&q1=종로구", "names is required"},
		{"blank names", "q0=서울특별시&q1=종로구&names=%20,%20", "names must not be empty"},
		{"short now", "q0=서울특별시&q1=종로구&names=a&now=930", "now must be 4-digit HHMM string"},
		{"non-digit now", "q0=서울특별시&q1=종로구&names=a&now=09:30", "now must be 4-digit HHMM string"},
		{"bad holiday", "q0=서울특별시&q1=종로구&names=a&holiday=maybe", "holiday must be a boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockPharmacyService)
			h := handlers.NewPharmacyHandler(svc, true)
			rec := httptest.NewRecorder()

			h.GetOpenStatus(rec, httptest.NewRequest(http.MethodGet, "/api/pharmacy/open-status?"+tt.query, nil))

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			svc.AssertNotCalled(t, "GetOpenStatus", mock.Anything, mock.Anything)
		})
	}
}

func TestPharmacyHandler_MissingCredential(t *testing.T) {
	svc := new(MockPharmacyService)
	h := handlers.NewPharmacyHandler(svc, false)
	rec := httptest.NewRecorder()

	h.GetOpenStatus(rec, httptest.NewRequest(http.MethodGet, "/api/pharmacy/open-status?q0=서울특별시&q1=종로구&names=a", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"DATA_GO_KR_SERVICE_KEY is not set. Add it to backend/.env."}`, rec.Body.String())
	svc.AssertNotCalled(t, "GetOpenStatus", mock.Anything, mock.Anything)
}

func TestPharmacyHandler_ValidationBeforeCredential(t *testing.T) {
	h := handlers.NewPharmacyHandler(new(MockPharmacyService), false)
	rec := httptest.NewRecorder()

	h.GetOpenStatus(rec, httptest.NewRequest(http.MethodGet, "/api/pharmacy/open-status?q0=서울특별시", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPharmacyHandler_NowOmitted(t *testing.T) {
	svc := new(MockPharmacyService)
	svc.On("GetOpenStatus", mock.Anything, mock.MatchedBy(func(req services.PharmacyStatusRequest) bool {
		return req.NowHHMM == nil && !req.UseHoliday && req.FallbackDistrict == ""
	})).Return([]entities.PharmacyOpenStatus{})

	h := handlers.NewPharmacyHandler(svc, true)
	rec := httptest.NewRecorder()
	h.GetOpenStatus(rec, httptest.NewRequest(http.MethodGet, "/api/pharmacy/open-status?q0=서울특별시&q1=종로구&names=a", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[]}`, rec.Body.String())
	svc.AssertExpectations(t)
}
