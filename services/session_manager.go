package services

import (
	"fmt"
	"sync"

	"pianopay/models"
	"pianopay/orderapi"
	"pianopay/services/logger"

	json "github.com/goccy/go-json"
	"github.com/olahol/melody"
)

// SessionManager giữ các phiên thanh toán đang sống của gateway, mỗi
// cặp user + subject một phiên, tạo lười khi có request đầu tiên
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*PaymentSession

	client orderapi.API
	store  SessionStore
	log    logger.Logger
	m      *melody.Melody
}

// NewSessionManager tạo registry phiên thanh toán. m có thể nil nếu không
// broadcast websocket.
func NewSessionManager(client orderapi.API, store SessionStore, log logger.Logger, m *melody.Melody) *SessionManager {
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &SessionManager{
		sessions: make(map[string]*PaymentSession),
		client:   client,
		store:    store,
		log:      log,
		m:        m,
	}
}

// SubjectKey ghép khóa phiên từ user và subject
func SubjectKey(userID uint, kind string, subjectID uint) string {
	return fmt.Sprintf("user:%d:%s:%d", userID, kind, subjectID)
}

// Session trả về phiên của user với subject, tạo mới nếu chưa có.
// Token mới nhất của user luôn được cập nhật cho các vòng poll nền.
func (mgr *SessionManager) Session(userID uint, kind string, subjectID uint, token string) *PaymentSession {
	key := SubjectKey(userID, kind, subjectID)

	mgr.mu.Lock()
	session, ok := mgr.sessions[key]
	if !ok {
		sessionLog := mgr.log
		if dl, isDefault := mgr.log.(*logger.DefaultLogger); isDefault {
			sessionLog = dl.WithPrefix(key)
		}
		session = NewPaymentSession(PaymentSessionOptions{
			Client:     mgr.client,
			Store:      mgr.store,
			SubjectKey: key,
			Logger:     sessionLog,
		})
		session.Subscribe(func(step string, order *models.Order) {
			mgr.broadcast(key, step, order)
		})
		mgr.sessions[key] = session
	}
	mgr.mu.Unlock()

	session.SetToken(token)
	return session
}

// Release đóng phiên và gỡ khỏi registry, gọi khi UI đóng hẳn luồng
// thanh toán. Phiên qr còn entry trong store nên vẫn khôi phục được.
func (mgr *SessionManager) Release(userID uint, kind string, subjectID uint) {
	key := SubjectKey(userID, kind, subjectID)

	mgr.mu.Lock()
	session, ok := mgr.sessions[key]
	if ok {
		delete(mgr.sessions, key)
	}
	mgr.mu.Unlock()

	if ok {
		session.Close()
	}
}

// sessionEvent payload broadcast qua websocket khi phiên chuyển bước
type sessionEvent struct {
	SubjectKey string `json:"subjectKey"`
	Step       string `json:"step"`
	OrderID    uint   `json:"orderId,omitempty"`
	Status     string `json:"status,omitempty"`
}

func (mgr *SessionManager) broadcast(key, step string, order *models.Order) {
	if mgr.m == nil {
		return
	}
	event := sessionEvent{SubjectKey: key, Step: step}
	if order != nil {
		event.OrderID = order.ID
		event.Status = order.Status
	}
	payload, err := json.Marshal(event)
	if err != nil {
		mgr.log.Error("không mã hóa được sự kiện phiên %s: %v", key, err)
		return
	}
	if err := mgr.m.Broadcast(payload); err != nil {
		mgr.log.Debug("broadcast sự kiện phiên %s thất bại: %v", key, err)
	}
}
