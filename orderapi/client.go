package orderapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"pianopay/errors"
	"pianopay/models"
	"pianopay/validator"

	json "github.com/goccy/go-json"
)

// API định nghĩa interface cho client gọi Order API của backend
type API interface {
	CreateOrder(ctx context.Context, token string, req *models.CreateOrderRequest) (*models.Order, error)
	CancelOrder(ctx context.Context, token string, orderID uint) error
	CheckStatus(ctx context.Context, token string, orderID uint) (*models.OrderStatusResult, error)
}

// Client gọi Order API qua HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient tạo client mới cho Order API
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// envelope cấu trúc response của backend
type envelope struct {
	Code int             `json:"code"`
	Mess string          `json:"mess"`
	Data json.RawMessage `json:"data,omitempty"`
}

// CreateOrder tạo đơn mới trên backend, status khởi tạo là pending.
// Dữ liệu được validate trước, lỗi validate không tạo request mạng.
// Backend tự tính lại giá, giá backend trả về là giá cuối cùng.
func (c *Client) CreateOrder(ctx context.Context, token string, req *models.CreateOrderRequest) (*models.Order, error) {
	if err := validator.ValidateCreateOrder(req); err != nil {
		return nil, err
	}

	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", token, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder hủy đơn, backend chỉ cho phép khi đơn còn pending
func (c *Client) CancelOrder(ctx context.Context, token string, orderID uint) error {
	path := fmt.Sprintf("/orders/%d/cancel", orderID)
	return c.do(ctx, http.MethodPost, path, token, nil, nil)
}

// CheckStatus poll trạng thái đơn, read-only nên an toàn khi gọi theo timer
func (c *Client) CheckStatus(ctx context.Context, token string, orderID uint) (*models.OrderStatusResult, error) {
	path := fmt.Sprintf("/orders/%d/status", orderID)
	var result models.OrderStatusResult
	if err := c.do(ctx, http.MethodGet, path, token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.NewAppError(errors.ErrCodeInvalidFormat, "Không thể mã hóa dữ liệu request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "Không thể tạo request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewAppError(errors.ErrCodeTransient, "Không kết nối được Order API", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewAppError(errors.ErrCodeTransient, "Không đọc được response từ Order API", err)
	}

	if resp.StatusCode >= 400 {
		return classifyStatus(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.NewAppError(errors.ErrCodeTransient, "Response từ Order API không hợp lệ", err)
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.NewAppError(errors.ErrCodeTransient, "Dữ liệu từ Order API không hợp lệ", err)
		}
		return nil
	}
	// Backend có thể trả object trực tiếp không bọc envelope
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewAppError(errors.ErrCodeTransient, "Dữ liệu từ Order API không hợp lệ", err)
	}
	return nil
}

// classifyStatus phân loại mã HTTP thành nhóm lỗi của ứng dụng
func classifyStatus(status int, raw []byte) error {
	mess := ""
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		mess = env.Mess
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if mess == "" {
			mess = "Chưa xác thực với Order API"
		}
		return errors.NewAppError(errors.ErrCodeUnauthorized, mess, nil)
	case status == http.StatusNotFound:
		if mess == "" {
			mess = "Không tìm thấy đơn hàng"
		}
		return errors.NewAppError(errors.ErrCodeNotFound, mess, errors.ErrOrderNotFound)
	case status == http.StatusConflict:
		if mess == "" {
			mess = "Đơn hàng không còn ở trạng thái chờ duyệt"
		}
		return errors.NewAppError(errors.ErrCodeInvalidState, mess, nil)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		if mess == "" {
			mess = "Dữ liệu đơn hàng không hợp lệ"
		}
		return errors.NewAppError(errors.ErrCodeValidation, mess, nil)
	default:
		if mess == "" {
			mess = fmt.Sprintf("Order API trả về lỗi %d", status)
		}
		return errors.NewAppError(errors.ErrCodeTransient, mess, nil)
	}
}
