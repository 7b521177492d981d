package controllers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"pianopay/constants"
	"pianopay/models"
	"pianopay/routes"
	"pianopay/services"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderAPI struct {
	mu          sync.Mutex
	createOrder *models.Order
	createErr   error
	status      *models.OrderStatusResult
}

func (f *fakeOrderAPI) CreateOrder(ctx context.Context, token string, req *models.CreateOrderRequest) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	order := *f.createOrder
	order.Kind = req.Kind
	order.SubjectID = req.SubjectID
	order.PaymentMethod = req.PaymentMethod
	return &order, nil
}

func (f *fakeOrderAPI) CancelOrder(ctx context.Context, token string, orderID uint) error {
	return nil
}

func (f *fakeOrderAPI) CheckStatus(ctx context.Context, token string, orderID uint) (*models.OrderStatusResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == nil {
		return &models.OrderStatusResult{Status: constants.OrderStatusPending}, nil
	}
	result := *f.status
	return &result, nil
}

func bearerToken(userID uint) string {
	payload, _ := json.Marshal(map[string]interface{}{
		"userinfo": map[string]interface{}{"userid": userID},
	})
	segment := base64.RawURLEncoding.EncodeToString(payload)
	return "header." + segment + ".signature"
}

func newTestRouter(api *fakeOrderAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	manager := services.NewSessionManager(api, services.NewMemorySessionStore(), nil, nil)
	routes.SetupRoutes(router, manager)
	return router
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		buf.Write(data)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Code int                    `json:"code"`
		Mess string                 `json:"mess"`
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestSessionRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(&fakeOrderAPI{})

	w := doRequest(router, http.MethodGet, "/api/v1/sessions/rent/12", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/sessions/rent/12", "khong-phai-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionRoutesRejectBadSubject(t *testing.T) {
	router := newTestRouter(&fakeOrderAPI{})
	token := bearerToken(7)

	w := doRequest(router, http.MethodGet, "/api/v1/sessions/lease/12", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/sessions/rent/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmCODReturnsSuccessView(t *testing.T) {
	api := &fakeOrderAPI{
		createOrder: &models.Order{
			ID:         31,
			TotalPrice: 5000000,
			Status:     constants.OrderStatusPending,
			CreatedAt:  time.Now(),
		},
	}
	router := newTestRouter(api)
	token := bearerToken(7)

	w := doRequest(router, http.MethodPost, "/api/v1/sessions/buy/3/confirm", token,
		map[string]string{"paymentMethod": constants.PaymentMethodCOD})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, constants.StepSuccess, data["step"])
	assert.Equal(t, "Đặt hàng thành công", data["title"])
	assert.Equal(t, false, data["canCancel"])
}

func TestConfirmQRServesViewAndQRImage(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	api := &fakeOrderAPI{
		createOrder: &models.Order{
			ID:               45,
			TotalPrice:       36000000,
			Status:           constants.OrderStatusPending,
			CreatedAt:        time.Now(),
			PaymentExpiredAt: &expiry,
			QRUrl:            "https://img.vietqr.io/image/ACB-123-compact.png?amount=36000000",
		},
	}
	router := newTestRouter(api)
	token := bearerToken(7)

	w := doRequest(router, http.MethodPost, "/api/v1/sessions/rent/12/confirm", token,
		map[string]string{
			"paymentMethod": constants.PaymentMethodQR,
			"rentalStart":   "10/09/2026",
			"rentalEnd":     "15/09/2026",
		})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, constants.StepQR, data["step"])
	assert.Equal(t, true, data["canCancel"])
	assert.NotEmpty(t, data["qrUrl"])
	assert.NotEmpty(t, data["countdown"])

	w = doRequest(router, http.MethodGet, "/api/v1/sessions/rent/12/qr.png", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	// Đóng phiên để dừng timer nền của test
	w = doRequest(router, http.MethodDelete, "/api/v1/sessions/rent/12", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQRImageUnavailableOutsideQRStep(t *testing.T) {
	router := newTestRouter(&fakeOrderAPI{})
	token := bearerToken(7)

	w := doRequest(router, http.MethodGet, "/api/v1/sessions/rent/12/qr.png", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPriceEndpoint(t *testing.T) {
	router := newTestRouter(&fakeOrderAPI{})

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantTotal float64
	}{
		{"thuê 5 ngày có giảm 10%", "kind=rent&baseRate=1000000&days=5", http.StatusOK, 36000000},
		{"thuê theo cặp ngày", "kind=rent&baseRate=1000000&start=10/09/2026&end=15/09/2026", http.StatusOK, 36000000},
		{"mua đứt", "kind=buy&baseRate=5000", http.StatusOK, 5000000},
		{"số ngày không hợp lệ", "kind=rent&baseRate=1000000&days=0", http.StatusBadRequest, 0},
		{"loại không hợp lệ", "kind=borrow&baseRate=1000000&days=5", http.StatusBadRequest, 0},
		{"đơn giá âm", "kind=buy&baseRate=-5", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, "/api/v1/price?"+tt.query, "", nil)
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				data := decodeData(t, w)
				assert.Equal(t, tt.wantTotal, data["total"])
			}
		})
	}
}
