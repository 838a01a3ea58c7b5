package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "go-ticket-inventory/pkg/app_errors"
)

// InventoryCache 售票快速路徑的可售數量閘門。
// 真正的不變量由聚合與資料庫守住；這層只負責在高併發下先擋掉
// 註定失敗的請求，避免無謂的資料庫交易。
type InventoryCache interface {
	// 預熱：預先加載票種的可售數量到 Redis
	WarmUp(ctx context.Context, ticketTypeID uuid.UUID, available int) error
	// 獲取：目前快取的可售數量
	GetAvailable(ctx context.Context, ticketTypeID uuid.UUID) (int, error)
	// 預留：原子扣減可售數量（Lua 腳本）
	Reserve(ctx context.Context, ticketTypeID uuid.UUID, quantity int) (bool, error)
	// 釋放：交易失敗或取消銷售時歸還數量
	Release(ctx context.Context, ticketTypeID uuid.UUID, quantity int) error
}

type InventoryCacheImpl struct {
	client *redis.Client
}

func NewInventoryCache(client *redis.Client) InventoryCache {
	return &InventoryCacheImpl{
		client: client,
	}
}

func (c *InventoryCacheImpl) getAvailabilityKey(ticketTypeID uuid.UUID) string {
	return fmt.Sprintf("ticket_type:%s:available", ticketTypeID)
}

func (c *InventoryCacheImpl) WarmUp(ctx context.Context, ticketTypeID uuid.UUID, available int) error {
	key := c.getAvailabilityKey(ticketTypeID)
	return c.client.Set(ctx, key, available, 0).Err()
}

func (c *InventoryCacheImpl) GetAvailable(ctx context.Context, ticketTypeID uuid.UUID) (int, error) {
	key := c.getAvailabilityKey(ticketTypeID)
	val, err := c.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return -1, apperrors.ErrTicketTypeNotFound
	}
	return val, err
}

func (c *InventoryCacheImpl) Reserve(ctx context.Context, ticketTypeID uuid.UUID, quantity int) (bool, error) {
	key := c.getAvailabilityKey(ticketTypeID)

	script := `
		-- 1. 取得參數
		local availability_key = KEYS[1]
		local request_qty = tonumber(ARGV[1])

		-- 2. 檢查數據是否存在
		local available = redis.call('GET', availability_key)
		if not available then
			return -2 -- 錯誤：票種未預熱
		end

		-- 3. 檢查可售數量
		if tonumber(available) < request_qty then
			return -1 -- 錯誤：數量不足
		end

		-- 4. 執行扣減
		redis.call('DECRBY', availability_key, request_qty)
		return 1 -- 預留成功
	`

	result, err := c.client.Eval(ctx, script, []string{key}, quantity).Result()
	if err != nil {
		return false, err
	}

	code := result.(int64) // Redis 數字通常回傳 int64

	switch code {
	case 1:
		return true, nil
	case -1:
		return false, apperrors.ErrInsufficientAvailability
	case -2:
		return false, apperrors.ErrTicketTypeNotFound
	default:
		return false, errors.New("unexpected result")
	}
}

func (c *InventoryCacheImpl) Release(ctx context.Context, ticketTypeID uuid.UUID, quantity int) error {
	key := c.getAvailabilityKey(ticketTypeID)
	return c.client.IncrBy(ctx, key, int64(quantity)).Err()
}
