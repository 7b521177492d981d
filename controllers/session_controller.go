package controllers

import (
	"strconv"

	"pianopay/constants"
	"pianopay/dto"
	"pianopay/errors"
	"pianopay/models"
	"pianopay/response"
	"pianopay/services"
	"pianopay/utils"

	"github.com/gin-gonic/gin"
)

// SessionController xử lý các request điều khiển phiên thanh toán
type SessionController struct {
	manager *services.SessionManager
}

// NewSessionController tạo controller mới trên registry phiên
func NewSessionController(manager *services.SessionManager) *SessionController {
	return &SessionController{manager: manager}
}

// parseSubject đọc kind và subjectId từ path
func parseSubject(c *gin.Context) (string, uint, bool) {
	kind := c.Param("kind")
	switch kind {
	case constants.OrderKindBuy, constants.OrderKindRent, constants.OrderKindCourse:
	default:
		response.BadRequest(c, "Loại đơn hàng không hợp lệ")
		return "", 0, false
	}

	subjectID, err := strconv.ParseUint(c.Param("subjectId"), 10, 64)
	if err != nil || subjectID == 0 {
		response.BadRequest(c, "ID sản phẩm không hợp lệ")
		return "", 0, false
	}

	return kind, uint(subjectID), true
}

func (ctrl *SessionController) session(c *gin.Context) (*services.PaymentSession, bool) {
	kind, subjectID, ok := parseSubject(c)
	if !ok {
		return nil, false
	}
	userID := c.GetUint("userID")
	token := c.GetString("token")
	return ctrl.manager.Session(userID, kind, subjectID, token), true
}

func sessionView(c *gin.Context, session *services.PaymentSession) {
	view := dto.NewSessionView(
		session.Step(),
		session.Order(),
		session.Remaining(),
		session.AuthError(),
		session.CancelInFlight(),
	)
	response.Success(c, view)
}

// handleSessionError map lỗi của phiên sang response HTTP. Lỗi tạo đơn và
// hủy đơn trả về ngay tại đây, không làm hỏng state machine.
func handleSessionError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		response.ServerError(c)
		return
	}
	switch {
	case errors.IsAuthError(err):
		response.Unauthorized(c)
	case errors.IsNotFound(err):
		response.NotFound(c)
	case errors.IsInvalidState(err):
		response.Conflict(c, appErr.Message)
	case errors.IsValidation(err):
		response.BadRequest(c, appErr.Message)
	case errors.IsTransient(err):
		response.BadGateway(c, appErr.Message)
	default:
		response.ServerError(c)
	}
}

// OpenSession mở phiên thanh toán của user với một sản phẩm. Nếu còn phiên
// QR chưa hết hạn trong store thì vào thẳng bước qr với đơn cũ.
func (ctrl *SessionController) OpenSession(c *gin.Context) {
	session, ok := ctrl.session(c)
	if !ok {
		return
	}
	if err := session.Open(c.Request.Context()); err != nil {
		handleSessionError(c, err)
		return
	}
	sessionView(c, session)
}

// GetSession trả về nội dung hiển thị hiện tại của phiên, UI gọi để vẽ lại
func (ctrl *SessionController) GetSession(c *gin.Context) {
	session, ok := ctrl.session(c)
	if !ok {
		return
	}
	sessionView(c, session)
}

// ConfirmOrder xác nhận đặt hàng với phương thức đã chọn
func (ctrl *SessionController) ConfirmOrder(c *gin.Context) {
	kind, subjectID, ok := parseSubject(c)
	if !ok {
		return
	}

	var req dto.ConfirmOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	userID := c.GetUint("userID")
	token := c.GetString("token")
	session := ctrl.manager.Session(userID, kind, subjectID, token)

	_, err := session.Confirm(c.Request.Context(), &models.CreateOrderRequest{
		SubjectID:     subjectID,
		Kind:          kind,
		PaymentMethod: req.PaymentMethod,
		RentalStart:   req.RentalStart,
		RentalEnd:     req.RentalEnd,
	})
	if err != nil {
		handleSessionError(c, err)
		return
	}
	sessionView(c, session)
}

// CancelOrder hủy đơn đang chờ thanh toán QR
func (ctrl *SessionController) CancelOrder(c *gin.Context) {
	session, ok := ctrl.session(c)
	if !ok {
		return
	}
	if err := session.Cancel(c.Request.Context()); err != nil {
		handleSessionError(c, err)
		return
	}
	sessionView(c, session)
}

// ResetSession "Đặt lại" từ bước hết hạn hoặc đã hủy
func (ctrl *SessionController) ResetSession(c *gin.Context) {
	session, ok := ctrl.session(c)
	if !ok {
		return
	}
	if err := session.Reset(c.Request.Context()); err != nil {
		handleSessionError(c, err)
		return
	}
	sessionView(c, session)
}

// CloseSession đóng luồng thanh toán phía UI. Phiên qr giữ entry trong
// store nên mở lại vẫn khôi phục được.
func (ctrl *SessionController) CloseSession(c *gin.Context) {
	kind, subjectID, ok := parseSubject(c)
	if !ok {
		return
	}
	ctrl.manager.Release(c.GetUint("userID"), kind, subjectID)
	response.Success(c, nil)
}

// GetQRImage vẽ mã QR của đơn đang chờ thành ảnh PNG
func (ctrl *SessionController) GetQRImage(c *gin.Context) {
	session, ok := ctrl.session(c)
	if !ok {
		return
	}

	order := session.Order()
	if session.Step() != constants.StepQR || order == nil {
		response.NotFound(c)
		return
	}

	content := order.QRUrl
	if content == "" && order.BankInfo != nil {
		content = order.BankInfo.BankName + "|" + order.BankInfo.AccountNumber + "|" + order.BankInfo.Description
	}
	if content == "" {
		response.NotFound(c)
		return
	}

	png, err := utils.GenerateQRCode(content, 256)
	if err != nil {
		response.ServerError(c)
		return
	}
	c.Data(200, "image/png", png)
}
