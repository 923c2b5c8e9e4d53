package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	createBooking "github.com/m04kA/ISB-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/ISB-BookingService/pkg/logger"
	"github.com/m04kA/ISB-BookingService/pkg/validation"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBooking.Response)
	return resp, args.Error(1)
}

const validBody = `{
	"fullName": "Jane Wanjiku",
	"phoneNumber": "+254700000000",
	"email": "jane@example.com",
	"kraPin": "A123456789Z",
	"resourceId": "Saifee Park",
	"blockNumber": "B",
	"houseNumber": "12",
	"package": "Bronze",
	"wifiUsername": "jane",
	"wifiPassword": "secret",
	"date": "2025-06-10",
	"timeWindow": "09:00-10:00"
}`

func post(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body)))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandle_Created(t *testing.T) {
	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.ResourceID == "Saifee Park" && req.TimeWindow == "09:00-10:00" && req.WifiPassword == "secret"
	})).Return(&createBooking.Response{
		ID:          42,
		ResourceID:  "Saifee Park",
		BookingDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		TimeWindow:  "09:00-10:00",
		Status:      "confirmed",
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, nil)

	rec := post(NewHandler(uc, logger.NewNop()), validBody)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(42), body.ID)
	assert.Equal(t, "2025-06-10", body.BookingDate)
	assert.Equal(t, "9:00 AM - 10:00 AM", body.FormattedTime)
	assert.Equal(t, "confirmed", body.Status)
	assert.NotContains(t, rec.Body.String(), "secret")
	uc.AssertExpectations(t)
}

func TestHandle_SlotUnavailableCarriesBookingID(t *testing.T) {
	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &createBooking.SlotUnavailableError{BookingID: 7})

	rec := post(NewHandler(uc, logger.NewNop()), validBody)

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "slot_unavailable", body["code"])
	assert.Equal(t, float64(7), body["bookingId"])
}

func TestHandle_ValidationErrorListsFields(t *testing.T) {
	uc := &useCaseMock{}
	verr := &validation.Error{Fields: map[string]string{"email": "must be a valid email address"}}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: %w", createBooking.ErrInvalidInput, verr))

	rec := post(NewHandler(uc, logger.NewNop()), validBody)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "validation_error", body["code"])
	assert.Contains(t, body["message"], "email: must be a valid email address")
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "unknown resource", err: createBooking.ErrResourceNotFound, wantCode: http.StatusBadRequest, wantBody: "validation_error"},
		{name: "package", err: createBooking.ErrPackageNotAvailable, wantCode: http.StatusBadRequest, wantBody: "validation_error"},
		{name: "date", err: fmt.Errorf("%w: too far", createBooking.ErrInvalidDate), wantCode: http.StatusBadRequest, wantBody: "validation_error"},
		{name: "storage", err: fmt.Errorf("%w: boom", createBooking.ErrInternal), wantCode: http.StatusInternalServerError, wantBody: "storage_error"},
		{name: "unexpected", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantBody: "storage_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &useCaseMock{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := post(NewHandler(uc, logger.NewNop()), validBody)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, decodeError(t, rec)["code"])
		})
	}
}

func TestHandle_MalformedBody(t *testing.T) {
	uc := &useCaseMock{}

	rec := post(NewHandler(uc, logger.NewNop()), `{"fullName":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
