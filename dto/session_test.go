package dto

import (
	"testing"
	"time"

	"pianopay/constants"
	"pianopay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "00:00"},
		{-5, "00:00"},
		{9, "00:09"},
		{59, "00:59"},
		{60, "01:00"},
		{599, "09:59"},
		{3600, "60:00"},
		{3661, "61:01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatCountdown(tt.seconds))
	}
}

func qrOrder(window time.Duration) *models.Order {
	created := time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)
	expiry := created.Add(window)
	return &models.Order{
		ID:               41,
		SubjectID:        12,
		Kind:             constants.OrderKindRent,
		PaymentMethod:    constants.PaymentMethodQR,
		TotalPrice:       36000000,
		Status:           constants.OrderStatusPending,
		CreatedAt:        created,
		PaymentExpiredAt: &expiry,
		QRUrl:            "https://img.vietqr.io/image/970422-123456789-compact.png",
		BankInfo: &models.BankInfo{
			BankName:      "MB Bank",
			AccountNumber: "123456789",
			Amount:        36000000,
			Description:   "PIANOPAY 41",
		},
	}
}

func TestNewSessionViewQR(t *testing.T) {
	view := NewSessionView(constants.StepQR, qrOrder(time.Hour), 1800, false, false)

	assert.Equal(t, "Quét mã QR để thanh toán", view.Title)
	assert.Equal(t, "30:00", view.Countdown)
	assert.InDelta(t, 0.5, view.Progress, 0.001)
	assert.True(t, view.CanCancel)
	assert.False(t, view.CancelDisabled)
	assert.False(t, view.CanReset)
	assert.False(t, view.AuthWarning)
	require.NotNil(t, view.Bank)
	assert.Equal(t, "MB Bank", view.Bank.BankName)
	assert.Equal(t, "MB Bank 123456789 PIANOPAY 41", view.Bank.CopyText)
	assert.NotEmpty(t, view.QRUrl)
}

func TestNewSessionViewProgressFollowsServerWindow(t *testing.T) {
	// Backend cấp cửa sổ 30 phút thì tiến trình tính trên 1800s chứ
	// không phải 3600s
	view := NewSessionView(constants.StepQR, qrOrder(30*time.Minute), 900, false, false)
	assert.InDelta(t, 0.5, view.Progress, 0.001)
}

func TestNewSessionViewAuthWarning(t *testing.T) {
	view := NewSessionView(constants.StepQR, qrOrder(time.Hour), 1800, true, false)
	assert.True(t, view.AuthWarning)
	assert.NotEmpty(t, view.AuthWarningText)
}

func TestNewSessionViewCancelInFlight(t *testing.T) {
	view := NewSessionView(constants.StepQR, qrOrder(time.Hour), 1800, false, true)
	assert.True(t, view.CanCancel)
	assert.True(t, view.CancelDisabled)
}

func TestNewSessionViewTerminalSteps(t *testing.T) {
	order := qrOrder(time.Hour)

	for _, step := range []string{constants.StepExpired, constants.StepCancelled} {
		view := NewSessionView(step, order, 0, false, false)
		assert.False(t, view.CanCancel, step)
		assert.True(t, view.CanReset, step)
		assert.Nil(t, view.Bank, step)
		assert.Equal(t, "00:00", view.Countdown, step)
	}

	success := NewSessionView(constants.StepSuccess, order, 0, false, false)
	assert.Equal(t, "Đặt hàng thành công", success.Title)
	assert.False(t, success.CanCancel)
	assert.False(t, success.CanReset)
}

func TestNewSessionViewSelect(t *testing.T) {
	view := NewSessionView(constants.StepSelect, nil, 0, false, false)
	assert.Equal(t, "Chọn phương thức thanh toán", view.Title)
	assert.Zero(t, view.OrderID)
	assert.False(t, view.CanCancel)
	assert.False(t, view.CanReset)
}
