package controllers

import (
	"strconv"

	"pianopay/constants"
	"pianopay/dto"
	"pianopay/errors"
	"pianopay/pricing"
	"pianopay/response"
	"pianopay/utils"

	"github.com/gin-gonic/gin"
)

// GetPrice tính giá xem trước cho UI trong lúc người dùng chọn ngày thuê.
// Giá cuối cùng vẫn do backend tính lại khi tạo đơn.
func GetPrice(c *gin.Context) {
	baseRate, err := strconv.ParseFloat(c.Query("baseRate"), 64)
	if err != nil || baseRate < 0 {
		response.BadRequest(c, "Đơn giá không hợp lệ")
		return
	}

	kind := c.Query("kind")
	switch kind {
	case constants.OrderKindBuy:
		response.Success(c, dto.PriceResponse{Kind: kind, Total: pricing.BuyPrice(baseRate)})
	case constants.OrderKindCourse:
		response.Success(c, dto.PriceResponse{Kind: kind, Total: baseRate})
	case constants.OrderKindRent:
		days, ok := rentalDaysFromQuery(c)
		if !ok {
			return
		}
		total, err := pricing.RentalPrice(baseRate, days)
		if err != nil {
			appErr := errors.GetAppError(err)
			response.BadRequest(c, appErr.Message)
			return
		}
		response.Success(c, dto.PriceResponse{Kind: kind, Days: days, Total: total})
	default:
		response.BadRequest(c, "Loại đơn hàng không hợp lệ")
	}
}

// rentalDaysFromQuery lấy số ngày thuê từ query, nhận trực tiếp days hoặc
// cặp ngày start/end dạng 02/01/2006
func rentalDaysFromQuery(c *gin.Context) (int, bool) {
	if daysStr := c.Query("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			response.BadRequest(c, "Số ngày thuê không hợp lệ")
			return 0, false
		}
		return days, true
	}

	start, err := utils.ConvertDateToISOFormat(c.Query("start"))
	if err != nil {
		response.BadRequest(c, "Ngày bắt đầu thuê không hợp lệ")
		return 0, false
	}
	end, err := utils.ConvertDateToISOFormat(c.Query("end"))
	if err != nil {
		response.BadRequest(c, "Ngày kết thúc thuê không hợp lệ")
		return 0, false
	}
	if !end.After(start) {
		response.BadRequest(c, "Ngày kết thúc thuê phải sau ngày bắt đầu")
		return 0, false
	}

	return utils.RentalDays(start, end), true
}
