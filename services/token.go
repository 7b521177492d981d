package services

import (
	"strings"

	"pianopay/errors"

	"github.com/dgrijalva/jwt-go"
	json "github.com/goccy/go-json"
)

// decodeClaims giải mã phần payload của token thành claims
func decodeClaims(tokenString string) (jwt.MapClaims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Token không hợp lệ", nil)
	}

	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Không thể giải mã token", err)
	}

	claimsMap := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claimsMap); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Không thể parse token", err)
	}

	return claimsMap, nil
}

// GetUserIDFromToken lấy userID từ token do auth provider cấp.
// Gateway không tự xác minh chữ ký, backend mới là nơi xác thực cuối cùng.
func GetUserIDFromToken(tokenString string) (uint, error) {
	claimsMap, err := decodeClaims(tokenString)
	if err != nil {
		return 0, err
	}

	userInfo, ok := claimsMap["userinfo"].(map[string]interface{})
	if !ok {
		return 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Không tìm thấy thông tin user trong token", nil)
	}

	userID, okID := userInfo["userid"].(float64)
	if !okID {
		return 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Không tìm thấy ID user trong token", nil)
	}

	return uint(userID), nil
}
