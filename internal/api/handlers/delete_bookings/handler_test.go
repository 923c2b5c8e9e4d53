package delete_bookings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/ISB-BookingService/internal/service/bookings"
	"github.com/m04kA/ISB-BookingService/internal/service/bookings/models"
	"github.com/m04kA/ISB-BookingService/pkg/logger"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) Delete(ctx context.Context, req *models.DeleteRequest) (*models.BulkResult, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.BulkResult)
	return resp, args.Error(1)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(m *serviceMock)
		wantCode int
		wantBody string
	}{
		{
			name: "deleted",
			body: `{"ids":[5,6]}`,
			setup: func(m *serviceMock) {
				m.On("Delete", mock.Anything, &models.DeleteRequest{IDs: []int64{5, 6}}).
					Return(&models.BulkResult{Requested: 2, Affected: 2, Released: 1, Failures: []models.Failure{}}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `"affected":2`,
		},
		{
			name: "empty ids",
			body: `{"ids":[]}`,
			setup: func(m *serviceMock) {
				m.On("Delete", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: ids must not be empty", bookings.ErrInvalidInput))
			},
			wantCode: http.StatusBadRequest,
			wantBody: `"code":"validation_error"`,
		},
		{
			name:     "malformed",
			body:     `[1,2]`,
			setup:    func(*serviceMock) {},
			wantCode: http.StatusBadRequest,
			wantBody: `"code":"validation_error"`,
		},
		{
			name: "storage",
			body: `{"ids":[5]}`,
			setup: func(m *serviceMock) {
				m.On("Delete", mock.Anything, mock.Anything).Return(nil, bookings.ErrInternal)
			},
			wantCode: http.StatusInternalServerError,
			wantBody: `"code":"storage_error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &serviceMock{}
			tt.setup(svc)

			rec := httptest.NewRecorder()
			NewHandler(svc, logger.NewNop()).Handle(rec,
				httptest.NewRequest(http.MethodPost, "/api/v1/admin/bookings/bulk-delete", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
