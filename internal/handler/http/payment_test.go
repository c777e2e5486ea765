package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/rookgm/kitchenflow/internal/handler/http/mocks"
	"github.com/rookgm/kitchenflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentHandler_ConfirmPayment(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockPaymentService
		wantStatusCode int
		wantCode       string
	}{
		{
			name: "captured_payment_return_200",
			body: `{"order_id":"` + orderID.String() + `","payment_reference":"pay_123"}`,
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ConfirmPayment(gomock.Any(), orderID, "pay_123").
					Return(&models.Order{
						ID:            orderID,
						Number:        "10009",
						Status:        models.OrderStatusPending,
						PaymentStatus: models.PaymentStatusPaid,
					}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_succeeded_return_402",
			body: `{"order_id":"` + orderID.String() + `","payment_reference":"pay_123"}`,
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ConfirmPayment(gomock.Any(), orderID, "pay_123").
					Return(nil, models.NewPaymentNotSucceededError("requires_action"))
				return svcMock
			},
			wantStatusCode: http.StatusPaymentRequired,
			wantCode:       "payment_not_succeeded",
		},
		{
			name: "unknown_reference_return_422",
			body: `{"order_id":"` + orderID.String() + `","payment_reference":"pay_999"}`,
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ConfirmPayment(gomock.Any(), orderID, "pay_999").
					Return(nil, models.ErrPaymentRefUnknown)
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantCode:       "payment_reference_unknown",
		},
		{
			name: "processor_unreachable_return_502",
			body: `{"order_id":"` + orderID.String() + `","payment_reference":"pay_123"}`,
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ConfirmPayment(gomock.Any(), orderID, "pay_123").
					Return(nil, models.NewProcessorUnavailableError(60*time.Second))
				return svcMock
			},
			wantStatusCode: http.StatusBadGateway,
			wantCode:       "processor_unavailable",
		},
		{
			name: "bad_order_id_return_400",
			body: `{"order_id":"not-a-uuid","payment_reference":"pay_123"}`,
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ConfirmPayment(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "missing_reference_return_400",
			body: `{"order_id":"` + orderID.String() + `"}`,
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ConfirmPayment(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/payments/confirm", strings.NewReader(tt.body))
			require.NoError(t, err)

			w := httptest.NewRecorder()

			handler := NewPaymentHandler(tt.setup(t))
			h := handler.ConfirmPayment()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantCode != "" {
				var got errorResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				assert.Equal(t, tt.wantCode, got.Code)
			}
		})
	}
}
