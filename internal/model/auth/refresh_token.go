package auth

import (
	"time"
)

// RefreshToken 刷新Token实体
// ID和UserID使用UUID格式（string），避免ObjectID转换的麻烦
// 记录只增不删：撤销、过期的Token保留用于审计，归档由外部负责
type RefreshToken struct {
	ID            string     `bson:"_id,omitempty" json:"id"`                         // UUID格式的ID
	UserID        string     `bson:"user_id" json:"user_id"`                          // UUID格式的用户ID
	Token         string     `bson:"token" json:"token"`                              // Refresh Token值（全局唯一）
	ExpiresAt     time.Time  `bson:"expires_at" json:"expires_at"`                    // 过期时间
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`                    // 创建时间
	IsRevoked     bool       `bson:"is_revoked" json:"is_revoked"`                    // 是否已撤销（单向，置true后不可逆）
	RevokedAt     *time.Time `bson:"revoked_at,omitempty" json:"revoked_at,omitempty"` // 撤销时间
	RevokedReason string     `bson:"revoked_reason,omitempty" json:"revoked_reason,omitempty"` // 撤销原因
	LastUsedAt    *time.Time `bson:"last_used_at,omitempty" json:"last_used_at,omitempty"`     // 最近一次使用时间
	IPAddress     string     `bson:"ip_address,omitempty" json:"ip_address,omitempty"`         // 创建时客户端IP（审计）
	UserAgent     string     `bson:"user_agent,omitempty" json:"user_agent,omitempty"`         // 创建时User-Agent（审计）
}

// IsActive 检查Token是否处于可用状态
// 永不落库，每次求值时计算，过期无需后台清扫
// 过期判断为严格大于：expires_at恰好等于当前时刻视为已过期
func (rt *RefreshToken) IsActive() bool {
	return !rt.IsRevoked && rt.ExpiresAt.After(time.Now())
}

// IsActiveAt 在指定时刻检查Token是否可用
func (rt *RefreshToken) IsActiveAt(now time.Time) bool {
	return !rt.IsRevoked && rt.ExpiresAt.After(now)
}

// Revoke 撤销Token
// 已撤销的Token保持原撤销时间与原因不变
func (rt *RefreshToken) Revoke(reason string, now time.Time) {
	if rt.IsRevoked {
		return
	}
	rt.IsRevoked = true
	rt.RevokedAt = &now
	rt.RevokedReason = reason
}

// TouchLastUsed 更新最近使用时间
func (rt *RefreshToken) TouchLastUsed(now time.Time) {
	rt.LastUsedAt = &now
}
