package utils

import "time"

// Chuyển chuỗi ngày string thành dạng timestamp
func ConvertDateToISOFormat(dateStr string) (time.Time, error) {
	parsedDate, err := time.Parse("02/01/2006", dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return parsedDate, nil
}

// RentalDays tính số ngày thuê từ ngày bắt đầu đến ngày kết thúc
func RentalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
