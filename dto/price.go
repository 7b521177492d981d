package dto

// PriceResponse là DTO cho giá xem trước
type PriceResponse struct {
	Kind  string  `json:"kind"`
	Days  int     `json:"days,omitempty"`
	Total float64 `json:"total"`
}
