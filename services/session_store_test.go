package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	clock := newFakeClock()
	store := NewMemorySessionStore()
	store.now = clock.Now
	ctx := context.Background()

	// Chưa lưu gì
	order, err := store.Load(ctx, "user:1:rent:5")
	require.NoError(t, err)
	assert.Nil(t, order)

	// Lưu rồi đọc lại
	saved := newQROrder(clock.Now(), time.Hour)
	require.NoError(t, store.Save(ctx, "user:1:rent:5", saved))
	order, err = store.Load(ctx, "user:1:rent:5")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, saved.ID, order.ID)

	// Load trả snapshot độc lập, sửa bên ngoài không ảnh hưởng store
	order.Status = "tampered"
	again, err := store.Load(ctx, "user:1:rent:5")
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", again.Status)

	// Mỗi subject một entry, ghi sau đè ghi trước
	replacement := newQROrder(clock.Now(), 2*time.Hour)
	replacement.ID = 99
	require.NoError(t, store.Save(ctx, "user:1:rent:5", replacement))
	order, err = store.Load(ctx, "user:1:rent:5")
	require.NoError(t, err)
	assert.Equal(t, uint(99), order.ID)

	// Clear xóa entry
	require.NoError(t, store.Clear(ctx, "user:1:rent:5"))
	order, err = store.Load(ctx, "user:1:rent:5")
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestMemorySessionStoreClearsExpiredOnLoad(t *testing.T) {
	clock := newFakeClock()
	store := NewMemorySessionStore()
	store.now = clock.Now
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user:1:rent:5", newQROrder(clock.Now(), time.Hour)))

	clock.Advance(61 * time.Minute)
	order, err := store.Load(ctx, "user:1:rent:5")
	require.NoError(t, err)
	assert.Nil(t, order)

	// Entry quá hạn đã bị dọn hẳn, không chỉ bị ẩn
	store.mu.RLock()
	_, ok := store.entries["user:1:rent:5"]
	store.mu.RUnlock()
	assert.False(t, ok)
}
