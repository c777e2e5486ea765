package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/rookgm/kitchenflow/internal/handler/http/mocks"
	"github.com/rookgm/kitchenflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTransitionRequest builds a request carrying the chi URL param and,
// when role is set, a resolved actor role, the way the channel middleware
// leaves them
func newTransitionRequest(t *testing.T, number, body string, role models.ActorRole) *http.Request {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, "/api/orders/"+number+"/status", strings.NewReader(body))
	require.NoError(t, err)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("number", number)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if role != "" {
		ctx = context.WithValue(ctx, actorRoleKey, role)
	}

	return req.WithContext(ctx)
}

func TestWorkflowHandler_RequestTransition(t *testing.T) {
	tests := []struct {
		name           string
		role           models.ActorRole
		body           string
		setup          func(t *testing.T) *mocks.MockWorkflowService
		wantStatusCode int
		wantCode       string
	}{
		{
			name: "valid_transition_return_200",
			role: models.RoleBOH,
			body: `{"status":"acknowledged"}`,
			setup: func(t *testing.T) *mocks.MockWorkflowService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockWorkflowService(ctrl)
				svcMock.EXPECT().
					RequestTransition(gomock.Any(), "10009", models.OrderStatusAcknowledged, models.RoleBOH).
					Return(&models.Order{Number: "10009", Status: models.OrderStatusAcknowledged}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "unknown_order_return_404",
			role: models.RoleFOH,
			body: `{"status":"confirmed"}`,
			setup: func(t *testing.T) *mocks.MockWorkflowService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockWorkflowService(ctrl)
				svcMock.EXPECT().
					RequestTransition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrOrderNotFound)
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
			wantCode:       "not_found",
		},
		{
			name: "invalid_transition_return_409",
			role: models.RoleBOH,
			body: `{"status":"ready"}`,
			setup: func(t *testing.T) *mocks.MockWorkflowService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockWorkflowService(ctrl)
				svcMock.EXPECT().
					RequestTransition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrInvalidTransition)
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
			wantCode:       "invalid_transition",
		},
		{
			name: "lost_race_return_409_conflict",
			role: models.RoleBOH,
			body: `{"status":"acknowledged"}`,
			setup: func(t *testing.T) *mocks.MockWorkflowService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockWorkflowService(ctrl)
				svcMock.EXPECT().
					RequestTransition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrConflict)
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
			wantCode:       "conflict",
		},
		{
			name: "out_of_workflow_return_403",
			role: models.RoleBOH,
			body: `{"status":"completed"}`,
			setup: func(t *testing.T) *mocks.MockWorkflowService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockWorkflowService(ctrl)
				svcMock.EXPECT().
					RequestTransition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrOutOfWorkflow)
				return svcMock
			},
			wantStatusCode: http.StatusForbidden,
			wantCode:       "out_of_workflow",
		},
		{
			name: "unpaid_confirm_return_402",
			role: models.RoleFOH,
			body: `{"status":"confirmed"}`,
			setup: func(t *testing.T) *mocks.MockWorkflowService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockWorkflowService(ctrl)
				svcMock.EXPECT().
					RequestTransition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrPaymentRequired)
				return svcMock
			},
			wantStatusCode: http.StatusPaymentRequired,
			wantCode:       "payment_required",
		},
		{
			name: "empty_body_return_400",
			role: models.RoleFOH,
			body: "",
			setup: func(t *testing.T) *mocks.MockWorkflowService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockWorkflowService(ctrl)
				svcMock.EXPECT().
					RequestTransition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "missing_role_return_500",
			body: `{"status":"confirmed"}`,
			setup: func(t *testing.T) *mocks.MockWorkflowService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockWorkflowService(ctrl)
				svcMock.EXPECT().
					RequestTransition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newTransitionRequest(t, "10009", tt.body, tt.role)
			w := httptest.NewRecorder()

			handler := NewWorkflowHandler(tt.setup(t))
			h := handler.RequestTransition()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantCode != "" {
				var got errorResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				assert.Equal(t, tt.wantCode, got.Code)
				assert.NotEmpty(t, got.Message)
			}
		})
	}
}
