package catalog

import (
	"time"
)

// Price 价格实体
// 金额以分为单位的整数存储，避免浮点误差
type Price struct {
	ID               string    `bson:"_id,omitempty" json:"id"`                      // UUID格式的ID
	Name             string    `bson:"name" json:"name"`                             // 价格名称（如"标准价"）
	CurrentPrice     int64     `bson:"current_price" json:"current_price"`           // 当前价格（分）
	PromotionalPrice int64     `bson:"promotional_price" json:"promotional_price"`   // 促销价格（分），无促销时等于当前价格
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}
