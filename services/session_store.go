package services

import (
	"context"
	"sync"
	"time"

	"pianopay/models"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Tiền tố key của phiên thanh toán trong Redis
const SessionKeyPrefix = "payment_session:"

// TTL dự phòng sau hạn thanh toán, để sweeper và Load dọn entry cũ
const sessionGracePeriod = 24 * time.Hour

// SessionStore lưu snapshot đơn QR đang chờ thanh toán theo subject key,
// để lần mở sau khôi phục đúng phiên thay vì tạo đơn trùng
type SessionStore interface {
	Save(ctx context.Context, subjectKey string, order *models.Order) error
	Load(ctx context.Context, subjectKey string) (*models.Order, error)
	Clear(ctx context.Context, subjectKey string) error
}

// RedisSessionStore lưu phiên thanh toán vào Redis
type RedisSessionStore struct {
	rdb *redis.Client
}

// NewRedisSessionStore tạo store mới trên Redis client đã kết nối
func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

// Save ghi đè snapshot của subject key, mỗi subject chỉ giữ một phiên
func (s *RedisSessionStore) Save(ctx context.Context, subjectKey string, order *models.Order) error {
	dataJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}

	ttl := sessionGracePeriod
	if order.PaymentExpiredAt != nil {
		ttl = time.Until(*order.PaymentExpiredAt) + sessionGracePeriod
	}
	if ttl <= 0 {
		return nil
	}

	return s.rdb.Set(ctx, SessionKeyPrefix+subjectKey, dataJSON, ttl).Err()
}

// Load trả về snapshot còn hạn thanh toán, entry quá hạn bị xóa luôn
func (s *RedisSessionStore) Load(ctx context.Context, subjectKey string) (*models.Order, error) {
	cachedData, err := s.rdb.Get(ctx, SessionKeyPrefix+subjectKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := json.Unmarshal([]byte(cachedData), &order); err != nil {
		// Entry hỏng thì xóa để lần sau tạo phiên mới
		s.rdb.Del(ctx, SessionKeyPrefix+subjectKey)
		return nil, nil
	}

	if order.PaymentExpired(time.Now()) {
		s.rdb.Del(ctx, SessionKeyPrefix+subjectKey)
		return nil, nil
	}

	return &order, nil
}

// Clear xóa snapshot của subject key
func (s *RedisSessionStore) Clear(ctx context.Context, subjectKey string) error {
	return s.rdb.Del(ctx, SessionKeyPrefix+subjectKey).Err()
}

// MemorySessionStore lưu phiên trong bộ nhớ, dùng cho test và khi chạy
// không có Redis
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]*models.Order
	now     func() time.Time
}

// NewMemorySessionStore tạo store trong bộ nhớ
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		entries: make(map[string]*models.Order),
		now:     time.Now,
	}
}

func (s *MemorySessionStore) Save(ctx context.Context, subjectKey string, order *models.Order) error {
	snapshot := *order
	s.mu.Lock()
	s.entries[subjectKey] = &snapshot
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Load(ctx context.Context, subjectKey string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.entries[subjectKey]
	if !ok {
		return nil, nil
	}
	if order.PaymentExpired(s.now()) {
		delete(s.entries, subjectKey)
		return nil, nil
	}

	snapshot := *order
	return &snapshot, nil
}

func (s *MemorySessionStore) Clear(ctx context.Context, subjectKey string) error {
	s.mu.Lock()
	delete(s.entries, subjectKey)
	s.mu.Unlock()
	return nil
}
