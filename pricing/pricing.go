package pricing

import (
	"math"

	"pianopay/errors"
)

// Các hằng số giá cố định, không cấu hình runtime
const (
	HoursPerDay   = 8
	BuyMultiplier = 1000

	discountDays10 = 3
	discountDays15 = 8
)

// discountFactor trả về hệ số giảm giá theo số ngày thuê:
// giảm 15% từ 8 ngày, 10% từ 3 ngày
func discountFactor(days int) float64 {
	switch {
	case days >= discountDays15:
		return 0.85
	case days >= discountDays10:
		return 0.90
	default:
		return 1.0
	}
}

// RentalPrice tính giá thuê đàn theo số ngày.
// Hàm thuần túy để client hiển thị giá ngay khi người dùng đổi ngày,
// backend tính lại và là giá cuối cùng.
func RentalPrice(baseRate float64, days int) (float64, error) {
	if days < 1 {
		return 0, errors.NewAppError(errors.ErrCodeInvalidDuration, "Số ngày thuê phải lớn hơn 0", nil)
	}
	return math.Round(baseRate * HoursPerDay * float64(days) * discountFactor(days)), nil
}

// BuyPrice tính giá mua đàn từ đơn giá theo giờ
func BuyPrice(baseRate float64) float64 {
	return baseRate * BuyMultiplier
}
