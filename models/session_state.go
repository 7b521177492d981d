package models

import (
	"errors"

	"pianopay/constants"
)

// SessionState định nghĩa interface cho các bước của phiên thanh toán
type SessionState interface {
	Confirm() error
	Cancel() error
	Reset() error
}

// SelectState bước chọn phương thức thanh toán
type SelectState struct{}

func (s *SelectState) Confirm() error {
	return nil
}

func (s *SelectState) Cancel() error {
	return errors.New("no order to cancel yet")
}

func (s *SelectState) Reset() error {
	return errors.New("session already at payment selection")
}

// QRState bước chờ quét mã QR
type QRState struct{}

func (s *QRState) Confirm() error {
	return errors.New("order already created, waiting for payment")
}

func (s *QRState) Cancel() error {
	return nil
}

func (s *QRState) Reset() error {
	return errors.New("cancel the pending payment before resetting")
}

// SuccessState bước thanh toán thành công
type SuccessState struct{}

func (s *SuccessState) Confirm() error {
	return errors.New("payment already completed")
}

func (s *SuccessState) Cancel() error {
	return errors.New("cannot cancel a completed payment")
}

func (s *SuccessState) Reset() error {
	return errors.New("cannot reset a completed payment")
}

// ExpiredState bước phiên thanh toán hết hạn
type ExpiredState struct{}

func (s *ExpiredState) Confirm() error {
	return errors.New("payment session expired")
}

func (s *ExpiredState) Cancel() error {
	return errors.New("payment session expired")
}

func (s *ExpiredState) Reset() error {
	return nil
}

// CancelledState bước đơn đã hủy
type CancelledState struct{}

func (s *CancelledState) Confirm() error {
	return errors.New("order already cancelled")
}

func (s *CancelledState) Cancel() error {
	return errors.New("order already cancelled")
}

func (s *CancelledState) Reset() error {
	return nil
}

// GetSessionState trả về state tương ứng với bước hiện tại của phiên
func GetSessionState(step string) SessionState {
	switch step {
	case constants.StepSelect:
		return &SelectState{}
	case constants.StepQR:
		return &QRState{}
	case constants.StepSuccess:
		return &SuccessState{}
	case constants.StepExpired:
		return &ExpiredState{}
	case constants.StepCancelled:
		return &CancelledState{}
	default:
		return &SelectState{}
	}
}
