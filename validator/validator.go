package validator

import (
	"pianopay/constants"
	"pianopay/errors"
	"pianopay/models"
	"pianopay/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateCreateOrder validate dữ liệu tạo đơn trước khi gọi backend.
// Lỗi ở đây chặn việc tạo đơn, không có request mạng nào được gửi đi.
func ValidateCreateOrder(req *models.CreateOrderRequest) error {
	if err := validate.Struct(req); err != nil {
		return errors.NewAppError(errors.ErrCodeValidation, "Dữ liệu đơn hàng không hợp lệ", err)
	}

	if req.Kind != constants.OrderKindRent {
		return nil
	}

	if req.RentalStart == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Ngày bắt đầu thuê không được để trống", nil)
	}
	if req.RentalEnd == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Ngày kết thúc thuê không được để trống", nil)
	}

	start, err := utils.ConvertDateToISOFormat(req.RentalStart)
	if err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "Ngày bắt đầu thuê không hợp lệ", err)
	}

	end, err := utils.ConvertDateToISOFormat(req.RentalEnd)
	if err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "Ngày kết thúc thuê không hợp lệ", err)
	}

	if !end.After(start) {
		return errors.NewAppError(errors.ErrCodeValidation, "Ngày kết thúc thuê phải sau ngày bắt đầu", nil)
	}

	if utils.RentalDays(start, end) < 1 {
		return errors.NewAppError(errors.ErrCodeInvalidDuration, "Thời gian thuê phải ít nhất 1 ngày", nil)
	}

	return nil
}
