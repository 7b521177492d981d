package services

import (
	"context"
	"sync"
	"time"

	"pianopay/constants"
	"pianopay/errors"
	"pianopay/models"
	"pianopay/orderapi"
	"pianopay/services/logger"
)

// SessionListener nhận thông báo mỗi khi phiên chuyển bước
type SessionListener func(step string, order *models.Order)

// PaymentSessionOptions tham số khởi tạo phiên thanh toán
type PaymentSessionOptions struct {
	Client     orderapi.API
	Store      SessionStore
	SubjectKey string
	Logger     logger.Logger

	// Now và các chu kỳ timer chỉ ghi đè trong test
	Now               func() time.Time
	CountdownInterval time.Duration
	PollInterval      time.Duration
}

// PaymentSession điều khiển vòng đời thanh toán của một subject:
// select -> qr -> success | expired | cancelled, với COD đi thẳng
// select -> success. Trong bước qr chạy hai timer độc lập: đếm ngược
// hạn thanh toán mỗi giây và poll trạng thái backend mỗi 5 giây.
type PaymentSession struct {
	client orderapi.API
	store  SessionStore
	log    logger.Logger

	now               func() time.Time
	countdownInterval time.Duration
	pollInterval      time.Duration

	subjectKey string

	mu              sync.Mutex
	step            string
	order           *models.Order
	token           string
	remaining       int
	authErr         bool
	pollInFlight    bool
	confirmInFlight bool
	cancelInFlight  bool

	// gen tăng mỗi lần vào hoặc rời bước qr, callback của timer cũ
	// so gen để không đụng vào phiên mới
	gen    uint64
	stopCh chan struct{}

	listeners []SessionListener
}

// NewPaymentSession tạo phiên thanh toán mới ở bước select
func NewPaymentSession(opts PaymentSessionOptions) *PaymentSession {
	s := &PaymentSession{
		client:            opts.Client,
		store:             opts.Store,
		log:               opts.Logger,
		now:               opts.Now,
		countdownInterval: opts.CountdownInterval,
		pollInterval:      opts.PollInterval,
		subjectKey:        opts.SubjectKey,
		step:              constants.StepSelect,
	}
	if s.log == nil {
		s.log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.countdownInterval <= 0 {
		s.countdownInterval = constants.CountdownInterval
	}
	if s.pollInterval <= 0 {
		s.pollInterval = constants.PollInterval
	}
	return s
}

// SetToken cập nhật token mới nhất của user, các vòng poll nền dùng token này
func (s *PaymentSession) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Subscribe đăng ký nhận thông báo chuyển bước
func (s *PaymentSession) Subscribe(fn SessionListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Step trả về bước hiện tại của phiên
func (s *PaymentSession) Step() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Order trả về snapshot đơn hiện tại, nil nếu chưa tạo đơn
func (s *PaymentSession) Order() *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return nil
	}
	snapshot := *s.order
	return &snapshot
}

// Remaining trả về số giây còn lại của cửa sổ thanh toán
func (s *PaymentSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// AuthError cho biết vòng poll có đang gặp lỗi xác thực không
func (s *PaymentSession) AuthError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authErr
}

// ConfirmInFlight cho biết đang có yêu cầu tạo đơn chưa hoàn tất
func (s *PaymentSession) ConfirmInFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmInFlight
}

// CancelInFlight cho biết đang có yêu cầu hủy chưa hoàn tất
func (s *PaymentSession) CancelInFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelInFlight
}

// Open mở phiên: nếu store còn phiên QR chưa hết hạn của subject này thì
// khôi phục và vào thẳng bước qr với đúng đơn cũ, không tạo đơn trùng;
// ngược lại ở bước select
func (s *PaymentSession) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.step != constants.StepSelect || s.order != nil {
		s.mu.Unlock()
		return nil
	}

	order, err := s.store.Load(ctx, s.subjectKey)
	if err != nil {
		// Lỗi store không chặn phiên, chỉ mất khả năng khôi phục
		s.log.Warn("không đọc được phiên đã lưu của %s: %v", s.subjectKey, err)
		s.mu.Unlock()
		return nil
	}
	if order == nil || !order.Resumable(s.now()) {
		s.mu.Unlock()
		return nil
	}

	s.order = order
	s.enterQRLocked()
	step, snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(step, snapshot)
	return nil
}

// Confirm xác nhận đặt hàng từ bước select. COD chuyển thẳng sang success,
// QR lưu phiên vào store rồi vào bước qr. Lỗi tạo đơn giữ nguyên bước select.
// Trong lúc yêu cầu tạo đơn còn chạy thì từ chối yêu cầu trùng, không để
// hai request đồng thời tạo hai đơn trên backend.
func (s *PaymentSession) Confirm(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	s.mu.Lock()
	if err := models.GetSessionState(s.step).Confirm(); err != nil {
		s.mu.Unlock()
		return nil, errors.NewAppError(errors.ErrCodeInvalidState, "Không thể tạo đơn ở bước hiện tại", err)
	}
	if s.confirmInFlight {
		s.mu.Unlock()
		return nil, errors.NewAppError(errors.ErrCodeInvalidState, "Yêu cầu tạo đơn đang được xử lý", errors.ErrConfirmInFlight)
	}
	s.confirmInFlight = true
	token := s.token
	s.mu.Unlock()

	order, err := s.client.CreateOrder(ctx, token, req)

	s.mu.Lock()
	s.confirmInFlight = false
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.step != constants.StepSelect {
		// Phiên đã đổi bước trong lúc tạo đơn, bỏ kết quả
		s.mu.Unlock()
		return order, nil
	}
	s.order = order

	if order.PaymentMethod == constants.PaymentMethodCOD {
		s.step = constants.StepSuccess
		step, snapshot := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(step, snapshot)
		return order, nil
	}

	if err := s.store.Save(ctx, s.subjectKey, order); err != nil {
		s.log.Warn("không lưu được phiên %s: %v", s.subjectKey, err)
	}
	s.enterQRLocked()
	step, snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(step, snapshot)
	return order, nil
}

// Cancel hủy đơn đang chờ thanh toán QR. Trong lúc yêu cầu hủy còn chạy
// thì từ chối yêu cầu trùng. Hủy thất bại giữ nguyên bước qr.
func (s *PaymentSession) Cancel(ctx context.Context) error {
	s.mu.Lock()
	if err := models.GetSessionState(s.step).Cancel(); err != nil {
		s.mu.Unlock()
		return errors.NewAppError(errors.ErrCodeInvalidState, "Không thể hủy ở bước hiện tại", err)
	}
	if s.cancelInFlight {
		s.mu.Unlock()
		return errors.NewAppError(errors.ErrCodeInvalidState, "Yêu cầu hủy đang được xử lý", errors.ErrCancelInFlight)
	}
	s.cancelInFlight = true
	gen := s.gen
	token := s.token
	orderID := s.order.ID
	s.mu.Unlock()

	err := s.client.CancelOrder(ctx, token, orderID)

	s.mu.Lock()
	s.cancelInFlight = false
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if gen != s.gen || s.step != constants.StepQR {
		s.mu.Unlock()
		return nil
	}
	s.teardownLocked()
	s.order.Status = constants.OrderStatusCancelled
	s.step = constants.StepCancelled
	step, snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.clearStore()
	s.notify(step, snapshot)
	return nil
}

// Reset "Đặt lại": từ bước hết hạn hoặc đã hủy quay về chọn phương thức
func (s *PaymentSession) Reset(ctx context.Context) error {
	s.mu.Lock()
	if err := models.GetSessionState(s.step).Reset(); err != nil {
		s.mu.Unlock()
		return errors.NewAppError(errors.ErrCodeInvalidState, "Không thể đặt lại ở bước hiện tại", err)
	}
	s.order = nil
	s.remaining = 0
	s.authErr = false
	s.step = constants.StepSelect
	s.mu.Unlock()
	s.clearStore()
	s.notify(constants.StepSelect, nil)
	return nil
}

// Close đóng phiên. Đóng khi đang ở bước qr chỉ dừng timer và giữ entry
// trong store để lần mở sau khôi phục; đóng ở bước cuối thì entry đã được
// dọn lúc chuyển bước.
func (s *PaymentSession) Close() {
	s.mu.Lock()
	s.teardownLocked()
	s.mu.Unlock()
}

// enterQRLocked vào bước qr và khởi động hai timer. Gọi khi đang giữ lock
// và s.order là đơn QR còn hạn.
func (s *PaymentSession) enterQRLocked() {
	s.teardownLocked()
	s.gen++
	gen := s.gen
	s.stopCh = make(chan struct{})
	s.authErr = false
	s.remaining = s.computeRemainingLocked()
	s.step = constants.StepQR

	go s.countdownLoop(gen, s.stopCh)
	go s.pollLoop(gen, s.stopCh)
}

// teardownLocked dừng cả hai timer và vô hiệu hóa callback còn treo
func (s *PaymentSession) teardownLocked() {
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	s.gen++
	s.pollInFlight = false
}

func (s *PaymentSession) computeRemainingLocked() int {
	if s.order == nil || s.order.PaymentExpiredAt == nil {
		return 0
	}
	remaining := int(s.order.PaymentExpiredAt.Sub(s.now()).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// clearStore xóa snapshot phiên khỏi store, gọi ngoài lock để một lần DEL
// chậm không chặn các accessor và timer của phiên
func (s *PaymentSession) clearStore() {
	if err := s.store.Clear(context.Background(), s.subjectKey); err != nil {
		s.log.Warn("không xóa được phiên %s khỏi store: %v", s.subjectKey, err)
	}
}

// snapshotLocked chụp bước và đơn tại thời điểm chuyển bước, để notify mang
// đúng transition vừa xảy ra thay vì đọc lại trạng thái có thể đã mới hơn
func (s *PaymentSession) snapshotLocked() (string, *models.Order) {
	if s.order == nil {
		return s.step, nil
	}
	snapshot := *s.order
	return s.step, &snapshot
}

func (s *PaymentSession) countdownLoop(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(s.countdownInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.tickCountdown(gen) {
				return
			}
		}
	}
}

// tickCountdown tính lại số giây còn lại. Về 0 thì chuyển expired ngay tại
// chỗ, không chờ server xác nhận, để UI phản hồi tức thì. Trả về false khi
// vòng đếm ngược nên dừng.
func (s *PaymentSession) tickCountdown(gen uint64) bool {
	s.mu.Lock()
	if gen != s.gen || s.step != constants.StepQR {
		s.mu.Unlock()
		return false
	}
	s.remaining = s.computeRemainingLocked()
	if s.remaining > 0 {
		s.mu.Unlock()
		return true
	}

	s.teardownLocked()
	s.step = constants.StepExpired
	step, order := s.snapshotLocked()
	s.mu.Unlock()
	s.clearStore()
	s.log.Info("phiên %s hết hạn thanh toán", s.subjectKey)
	s.notify(step, order)
	return false
}

func (s *PaymentSession) pollLoop(gen uint64, stop <-chan struct{}) {
	// Poll ngay khi vào bước qr, không đợi tick đầu tiên
	if !s.pollOnce(gen) {
		return
	}
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.pollOnce(gen) {
				return
			}
		}
	}
}

// pollOnce gọi CheckStatus một lần và áp kết quả. Không cho phép hai poll
// chồng nhau: tick mới bị bỏ qua khi poll trước chưa trả về. Trả về false
// khi vòng poll nên dừng.
func (s *PaymentSession) pollOnce(gen uint64) bool {
	s.mu.Lock()
	if gen != s.gen || s.step != constants.StepQR {
		s.mu.Unlock()
		return false
	}
	if s.pollInFlight {
		s.mu.Unlock()
		return true
	}
	s.pollInFlight = true
	token := s.token
	orderID := s.order.ID
	s.mu.Unlock()

	result, err := s.client.CheckStatus(context.Background(), token, orderID)
	return s.applyPollResult(gen, result, err)
}

// applyPollResult áp kết quả poll vào phiên. Kết quả về sau khi phiên đã
// rời bước qr (ví dụ đếm ngược đã chốt expired) bị bỏ, trạng thái cục bộ
// thắng dữ liệu poll trễ.
func (s *PaymentSession) applyPollResult(gen uint64, result *models.OrderStatusResult, err error) bool {
	s.mu.Lock()
	s.pollInFlight = false
	if gen != s.gen || s.step != constants.StepQR {
		s.mu.Unlock()
		return false
	}

	if err != nil {
		switch {
		case errors.IsAuthError(err):
			// Mất xác thực chỉ làm mất xác nhận realtime, đơn vẫn có thể
			// được duyệt phía backend
			if !s.authErr {
				s.authErr = true
				s.log.Warn("poll phiên %s gặp lỗi xác thực", s.subjectKey)
			}
			s.mu.Unlock()
			return true
		case errors.IsNotFound(err):
			// Đơn không còn tồn tại, coi như đã hủy
			s.teardownLocked()
			s.step = constants.StepCancelled
			step, order := s.snapshotLocked()
			s.mu.Unlock()
			s.clearStore()
			s.notify(step, order)
			return false
		default:
			// Lỗi tạm thời, thử lại ở tick sau
			s.log.Debug("poll phiên %s lỗi tạm thời: %v", s.subjectKey, err)
			s.mu.Unlock()
			return true
		}
	}

	s.authErr = false

	next := ""
	switch {
	case result.Status == constants.OrderStatusApproved || result.Status == constants.OrderStatusCompleted:
		next = constants.StepSuccess
	case result.Status == constants.OrderStatusCancelled || result.Status == constants.OrderStatusRejected:
		next = constants.StepCancelled
	case result.IsExpired:
		next = constants.StepExpired
	}
	if next == "" {
		s.mu.Unlock()
		return true
	}

	s.teardownLocked()
	s.order.Status = result.Status
	s.step = next
	step, order := s.snapshotLocked()
	s.mu.Unlock()
	s.clearStore()
	s.log.Info("phiên %s chuyển sang %s theo backend", s.subjectKey, next)
	s.notify(step, order)
	return false
}

// notify báo cho các listener về một lần chuyển bước, gọi ngoài lock.
// Bước và đơn được chụp tại thời điểm chuyển để hai transition sát nhau
// không làm listener mất bước trung gian.
func (s *PaymentSession) notify(step string, order *models.Order) {
	s.mu.Lock()
	listeners := make([]SessionListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(step, order)
	}
}
