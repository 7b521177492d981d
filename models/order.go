package models

import (
	"time"

	"pianopay/constants"
)

// BankInfo thông tin chuyển khoản cho đơn thanh toán QR
type BankInfo struct {
	BankName      string  `json:"bankName"`
	AccountNumber string  `json:"accountNumber"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
}

// Order đơn mua / thuê đàn hoặc đăng ký khóa học, do backend tạo và sở hữu trạng thái
type Order struct {
	ID            uint      `json:"id"`
	SubjectID     uint      `json:"subjectId"`
	Kind          string    `json:"kind"`
	PaymentMethod string    `json:"paymentMethod"`
	TotalPrice    float64   `json:"totalPrice"`
	RentalStart   string    `json:"rentalStart,omitempty"`
	RentalEnd     string    `json:"rentalEnd,omitempty"`
	RentalDays    int       `json:"rentalDays,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`

	// Chỉ có khi thanh toán QR
	PaymentExpiredAt *time.Time `json:"paymentExpiredAt,omitempty"`
	QRUrl            string     `json:"qrUrl,omitempty"`
	BankInfo         *BankInfo  `json:"bankInfo,omitempty"`
}

// PaymentExpired kiểm tra đơn QR đã quá hạn thanh toán chưa
func (o *Order) PaymentExpired(now time.Time) bool {
	if o.PaymentExpiredAt == nil {
		return false
	}
	return !o.PaymentExpiredAt.After(now)
}

// PaymentWindow trả về độ dài cửa sổ thanh toán, tính từ thời điểm tạo đơn
// đến hạn thanh toán mà backend cấp. Không dùng hằng 3600s vì backend có thể
// cấp cửa sổ khác.
func (o *Order) PaymentWindow() time.Duration {
	if o.PaymentExpiredAt == nil || o.CreatedAt.IsZero() {
		return 0
	}
	w := o.PaymentExpiredAt.Sub(o.CreatedAt)
	if w < 0 {
		return 0
	}
	return w
}

// Resumable kiểm tra đơn có thể khôi phục thành phiên QR đang chờ hay không
func (o *Order) Resumable(now time.Time) bool {
	return o.PaymentMethod == constants.PaymentMethodQR &&
		o.Status == constants.OrderStatusPending &&
		o.PaymentExpiredAt != nil &&
		o.PaymentExpiredAt.After(now)
}

// CreateOrderRequest dữ liệu tạo đơn gửi lên backend
type CreateOrderRequest struct {
	SubjectID     uint   `json:"subjectId" validate:"required"`
	Kind          string `json:"kind" validate:"required,oneof=buy rent course"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=COD QR"`
	RentalStart   string `json:"rentalStart,omitempty"`
	RentalEnd     string `json:"rentalEnd,omitempty"`
}

// OrderStatusResult kết quả poll trạng thái đơn từ backend
type OrderStatusResult struct {
	Status    string `json:"status"`
	IsExpired bool   `json:"is_expired"`
}
