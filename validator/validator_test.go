package validator

import (
	"testing"

	"pianopay/constants"
	"pianopay/errors"
	"pianopay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreateOrder(t *testing.T) {
	tests := []struct {
		name         string
		req          models.CreateOrderRequest
		expectedCode errors.ErrorCode
	}{
		{
			name: "valid buy order",
			req: models.CreateOrderRequest{
				SubjectID:     1,
				Kind:          constants.OrderKindBuy,
				PaymentMethod: constants.PaymentMethodCOD,
			},
		},
		{
			name: "valid rent order",
			req: models.CreateOrderRequest{
				SubjectID:     1,
				Kind:          constants.OrderKindRent,
				PaymentMethod: constants.PaymentMethodQR,
				RentalStart:   "01/10/2025",
				RentalEnd:     "06/10/2025",
			},
		},
		{
			name: "valid course order",
			req: models.CreateOrderRequest{
				SubjectID:     7,
				Kind:          constants.OrderKindCourse,
				PaymentMethod: constants.PaymentMethodQR,
			},
		},
		{
			name: "missing subject",
			req: models.CreateOrderRequest{
				Kind:          constants.OrderKindBuy,
				PaymentMethod: constants.PaymentMethodCOD,
			},
			expectedCode: errors.ErrCodeValidation,
		},
		{
			name: "unknown kind",
			req: models.CreateOrderRequest{
				SubjectID:     1,
				Kind:          "lease",
				PaymentMethod: constants.PaymentMethodCOD,
			},
			expectedCode: errors.ErrCodeValidation,
		},
		{
			name: "unknown payment method",
			req: models.CreateOrderRequest{
				SubjectID:     1,
				Kind:          constants.OrderKindBuy,
				PaymentMethod: "CARD",
			},
			expectedCode: errors.ErrCodeValidation,
		},
		{
			name: "rent without start date",
			req: models.CreateOrderRequest{
				SubjectID:     1,
				Kind:          constants.OrderKindRent,
				PaymentMethod: constants.PaymentMethodQR,
				RentalEnd:     "06/10/2025",
			},
			expectedCode: errors.ErrCodeRequiredField,
		},
		{
			name: "rent without end date",
			req: models.CreateOrderRequest{
				SubjectID:     1,
				Kind:          constants.OrderKindRent,
				PaymentMethod: constants.PaymentMethodQR,
				RentalStart:   "01/10/2025",
			},
			expectedCode: errors.ErrCodeRequiredField,
		},
		{
			name: "rent with malformed date",
			req: models.CreateOrderRequest{
				SubjectID:     1,
				Kind:          constants.OrderKindRent,
				PaymentMethod: constants.PaymentMethodQR,
				RentalStart:   "2025-10-01",
				RentalEnd:     "06/10/2025",
			},
			expectedCode: errors.ErrCodeInvalidFormat,
		},
		{
			name: "rent with end before start",
			req: models.CreateOrderRequest{
				SubjectID:     1,
				Kind:          constants.OrderKindRent,
				PaymentMethod: constants.PaymentMethodQR,
				RentalStart:   "06/10/2025",
				RentalEnd:     "01/10/2025",
			},
			expectedCode: errors.ErrCodeValidation,
		},
		{
			name: "rent with end equal to start",
			req: models.CreateOrderRequest{
				SubjectID:     1,
				Kind:          constants.OrderKindRent,
				PaymentMethod: constants.PaymentMethodQR,
				RentalStart:   "01/10/2025",
				RentalEnd:     "01/10/2025",
			},
			expectedCode: errors.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateOrder(&tt.req)
			if tt.expectedCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, errors.CodeOf(err))
		})
	}
}
