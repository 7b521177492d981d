package dto

import (
	"fmt"

	"pianopay/constants"
	"pianopay/models"
)

// ConfirmOrderRequest là DTO cho request xác nhận đặt hàng
type ConfirmOrderRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	RentalStart   string `json:"rentalStart,omitempty"`
	RentalEnd     string `json:"rentalEnd,omitempty"`
}

// BankView thông tin chuyển khoản hiển thị cho người dùng
type BankView struct {
	BankName      string  `json:"bankName"`
	AccountNumber string  `json:"accountNumber"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	// CopyText là chuỗi để nút copy đưa vào clipboard phía UI
	CopyText string `json:"copyText"`
}

// SessionView là DTO hiển thị phiên thanh toán, chỉ chứa nội dung trình
// bày, không quyết định chuyển bước
type SessionView struct {
	Step             string    `json:"step"`
	Title            string    `json:"title"`
	OrderID          uint      `json:"orderId,omitempty"`
	OrderStatus      string    `json:"orderStatus,omitempty"`
	TotalPrice       float64   `json:"totalPrice,omitempty"`
	Countdown        string    `json:"countdown"`
	RemainingSeconds int       `json:"remainingSeconds"`
	Progress         float64   `json:"progress"`
	QRUrl            string    `json:"qrUrl,omitempty"`
	Bank             *BankView `json:"bank,omitempty"`
	AuthWarning      bool      `json:"authWarning"`
	AuthWarningText  string    `json:"authWarningText,omitempty"`
	CanCancel        bool      `json:"canCancel"`
	CancelDisabled   bool      `json:"cancelDisabled"`
	CanReset         bool      `json:"canReset"`
}

// stepTitles tiêu đề hiển thị theo từng bước
var stepTitles = map[string]string{
	constants.StepSelect:    "Chọn phương thức thanh toán",
	constants.StepQR:        "Quét mã QR để thanh toán",
	constants.StepSuccess:   "Đặt hàng thành công",
	constants.StepExpired:   "Phiên thanh toán đã hết hạn",
	constants.StepCancelled: "Đơn hàng đã được hủy",
}

const authWarningText = "Phiên đăng nhập đã hết hạn, không thể xác nhận thanh toán tự động. Vui lòng đăng nhập lại."

// FormatCountdown định dạng số giây còn lại thành MM:SS
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// NewSessionView dựng nội dung hiển thị từ bước và snapshot đơn hiện tại
func NewSessionView(step string, order *models.Order, remaining int, authErr, cancelInFlight bool) *SessionView {
	view := &SessionView{
		Step:             step,
		Title:            stepTitles[step],
		Countdown:        FormatCountdown(remaining),
		RemainingSeconds: remaining,
		CanCancel:        step == constants.StepQR,
		CancelDisabled:   cancelInFlight,
		CanReset:         step == constants.StepExpired || step == constants.StepCancelled,
	}

	if order != nil {
		view.OrderID = order.ID
		view.OrderStatus = order.Status
		view.TotalPrice = order.TotalPrice
	}

	if step != constants.StepQR || order == nil {
		return view
	}

	view.QRUrl = order.QRUrl
	if order.BankInfo != nil {
		view.Bank = &BankView{
			BankName:      order.BankInfo.BankName,
			AccountNumber: order.BankInfo.AccountNumber,
			Amount:        order.BankInfo.Amount,
			Description:   order.BankInfo.Description,
			CopyText:      fmt.Sprintf("%s %s %s", order.BankInfo.BankName, order.BankInfo.AccountNumber, order.BankInfo.Description),
		}
	}

	// Thanh tiến trình tính theo cửa sổ backend cấp (hạn trừ thời điểm
	// tạo đơn), không theo hằng số cố định
	if window := order.PaymentWindow().Seconds(); window > 0 {
		progress := float64(remaining) / window
		if progress > 1 {
			progress = 1
		}
		if progress < 0 {
			progress = 0
		}
		view.Progress = progress
	}

	if authErr {
		view.AuthWarning = true
		view.AuthWarningText = authWarningText
	}

	return view
}
