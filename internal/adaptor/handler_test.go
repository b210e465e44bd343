package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"freelance-booking/internal/data/entity"
	"freelance-booking/internal/dto/request"
	"freelance-booking/internal/dto/response"
	"freelance-booking/internal/usecase"
	"freelance-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Initiate(ctx context.Context, req *request.InitiatePaymentRequest) (*response.InitiatePaymentResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.InitiatePaymentResponse)
	return resp, args.Error(1)
}

func (m *MockPaymentService) Verify(ctx context.Context, req *request.VerifyPaymentRequest) (*response.VerifyPaymentResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.VerifyPaymentResponse)
	return resp, args.Error(1)
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	return m.Called(ctx, body, signature).Error(0)
}

func (m *MockPaymentService) RecordVerifiedPayment(ctx context.Context, p usecase.VerifiedPayment) (*entity.PaymentLog, bool, error) {
	args := m.Called(ctx, p)
	log, _ := args.Get(0).(*entity.PaymentLog)
	return log, args.Bool(1), args.Error(2)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentLogResponse], error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.PaginatedResponse[response.PaymentLogResponse])
	return resp, args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) SubmitBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingCreatedResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.BookingCreatedResponse)
	return resp, args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *MockBookingService) ListBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.PaginatedResponse[response.BookingResponse])
	return resp, args.Error(1)
}

func (m *MockBookingService) UpdateBooking(ctx context.Context, id uuid.UUID, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *MockBookingService) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &usecase.ValidationError{Fields: map[string]string{"email": "bad"}}, http.StatusBadRequest},
		{"unauthorized", fmt.Errorf("%w: invalid credentials", usecase.ErrUnauthorized), http.StatusUnauthorized},
		{"conflict", usecase.ErrConflict, http.StatusConflict},
		{"not found", fmt.Errorf("booking %w", usecase.ErrNotFound), http.StatusNotFound},
		{"verification failed", usecase.ErrVerificationFailed, http.StatusBadRequest},
		{"amount mismatch", usecase.ErrAmountMismatch, http.StatusBadRequest},
		{"invalid transition", usecase.ErrInvalidTransition, http.StatusBadRequest},
		{"gateway", fmt.Errorf("%w: Invalid key", usecase.ErrGateway), http.StatusBadGateway},
		{"gateway config", usecase.ErrGatewayConfig, http.StatusInternalServerError},
		{"not recorded", usecase.ErrPaymentNotRecorded, http.StatusInternalServerError},
		{"internal", errors.New("failed to create booking"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "test")

			assert.Equal(t, tt.want, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
		})
	}
}

func TestHandleServiceError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, zap.NewNop(), errors.New("pq: connection refused to 10.0.0.3"), "list bookings")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}

func TestHandleServiceError_ValidationCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, zap.NewNop(), &usecase.ValidationError{Fields: map[string]string{"service": "This field is required"}}, "submit booking")

	resp := decodeResponse(t, rec)
	assert.Equal(t, map[string]any{"service": "This field is required"}, resp.Errors)
}

func TestPaymentHandler_Webhook_StatusPolicy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     int
		received bool
	}{
		{"recorded", nil, http.StatusOK, true},
		{"bad signature", fmt.Errorf("%w: invalid signature", usecase.ErrUnauthorized), http.StatusUnauthorized, false},
		{"verification failed is acknowledged", usecase.ErrVerificationFailed, http.StatusOK, true},
		{"amount mismatch is acknowledged", usecase.ErrAmountMismatch, http.StatusOK, true},
		{"not recorded asks for retry", usecase.ErrPaymentNotRecorded, http.StatusInternalServerError, false},
		{"gateway down asks for retry", fmt.Errorf("%w: timeout", usecase.ErrGateway), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockPaymentService{}
			body := `{"event":"charge.success","data":{"reference":"ref-1"}}`
			svc.On("HandleWebhook", mock.Anything, []byte(body), "sig").Return(tt.err)
			h := NewPaymentHandler(svc, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/paystack/webhook", strings.NewReader(body))
			req.Header.Set("X-Paystack-Signature", "sig")
			rec := httptest.NewRecorder()
			h.Webhook(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusUnauthorized {
				var got map[string]bool
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, tt.received, got["received"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestPaymentHandler_Verify(t *testing.T) {
	svc := &MockPaymentService{}
	svc.On("Verify", mock.Anything, &request.VerifyPaymentRequest{Reference: "ref-1"}).
		Return(&response.VerifyPaymentResponse{Reference: "ref-1", Amount: 2500, Service: "Web App", CustomerEmail: "jane@x.com"}, nil)
	h := NewPaymentHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Verify(rec, httptest.NewRequest(http.MethodPost, "/api/paystack/verify", strings.NewReader(`{"reference":"ref-1"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"customerEmail":"jane@x.com"`)
}

func TestBookingHandler_SubmitBooking(t *testing.T) {
	svc := &MockBookingService{}
	svc.On("SubmitBooking", mock.Anything, mock.MatchedBy(func(req *request.CreateBookingRequest) bool {
		return req.Email == "jane@x.com" && req.Service == "web-app"
	})).Return(&response.BookingCreatedResponse{BookingID: "b", ProjectID: "p", UserID: "u"}, nil)
	h := NewBookingHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.SubmitBooking(rec, httptest.NewRequest(http.MethodPost, "/api/booking",
		strings.NewReader(`{"name":"Jane Doe","email":"jane@x.com","service":"web-app"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]any{"bookingId": "b", "projectId": "p", "userId": "u"}, resp.Data)
}

func TestBookingHandler_RejectsMalformedInput(t *testing.T) {
	svc := &MockBookingService{}
	h := NewBookingHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.SubmitBooking(rec, httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(`{"name":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	r := chi.NewRouter()
	r.Get("/api/bookings/{id}", h.GetBooking)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNotCalled(t, "SubmitBooking", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "GetBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_GetBooking_NotFound(t *testing.T) {
	id := uuid.New()
	svc := &MockBookingService{}
	svc.On("GetBooking", mock.Anything, id).Return(nil, fmt.Errorf("booking %w", usecase.ErrNotFound))
	h := NewBookingHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/bookings/{id}", h.GetBooking)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingHandler_ListBookings_ParsesPagination(t *testing.T) {
	svc := &MockBookingService{}
	svc.On("ListBookings", mock.Anything, &request.PaginatedRequest{Page: 2, PerPage: 5}).
		Return(response.NewPaginatedResponse([]response.BookingResponse{}, 2, 5, 7), nil)
	h := NewBookingHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ListBookings(rec, httptest.NewRequest(http.MethodGet, "/api/bookings?page=2&per_page=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
