package jobs

import (
	"log"
	"time"

	"pianopay/config"
	"pianopay/models"
	"pianopay/services"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron, rdb *redis.Client) error {
	// Quét dọn snapshot phiên thanh toán đã hết hạn mỗi giờ. Load cũng tự
	// xóa entry hết hạn, job này chỉ dọn những phiên không ai mở lại.
	_, err := c.AddFunc("@hourly", func() {
		if rdb == nil {
			return
		}
		now := time.Now()
		log.Printf("Đang quét dọn phiên thanh toán hết hạn lúc: %v", now)
		if err := SweepExpiredSessions(rdb, now); err != nil {
			log.Printf("Lỗi khi quét dọn phiên thanh toán: %v", err)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}

// SweepExpiredSessions xóa các snapshot phiên QR đã quá hạn thanh toán
func SweepExpiredSessions(rdb *redis.Client, now time.Time) error {
	var cursor uint64
	for {
		keys, next, err := rdb.Scan(config.Ctx, cursor, services.SessionKeyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}

		for _, key := range keys {
			cachedData, err := rdb.Get(config.Ctx, key).Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return err
			}

			var order models.Order
			if err := json.Unmarshal([]byte(cachedData), &order); err != nil {
				rdb.Del(config.Ctx, key)
				continue
			}
			if order.PaymentExpired(now) {
				rdb.Del(config.Ctx, key)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
