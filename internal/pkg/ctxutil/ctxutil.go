package ctxutil

import "context"

// userIDKeyType 使用私有类型避免与其他 context key 冲突
type userIDKeyType struct{}

// policiesKeyType 授权策略的 context key 类型
type policiesKeyType struct{}

var (
	userIDKey   = userIDKeyType{}
	policiesKey = policiesKeyType{}
)

// WithUserID 将 userID 注入到 context 中
// 说明：建议在认证中间件中调用，例如在解析 JWT 成功后：
//
//	ctx := ctxutil.WithUserID(c.Request.Context(), claims.UserID)
//	c.Request = c.Request.WithContext(ctx)
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID 从 context 中解析 userID
// 返回值：
//   - string: 解析到的 userID
//   - bool  : 是否存在有效的 userID
func GetUserID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v := ctx.Value(userIDKey)
	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithPolicies 将授权策略集合注入到 context 中
func WithPolicies(ctx context.Context, policies []string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, policiesKey, policies)
}

// GetPolicies 从 context 中解析授权策略集合
func GetPolicies(ctx context.Context) ([]string, bool) {
	if ctx == nil {
		return nil, false
	}
	v := ctx.Value(policiesKey)
	policies, ok := v.([]string)
	if !ok {
		return nil, false
	}
	return policies, true
}

// HasPolicy 检查 context 中是否包含指定策略
func HasPolicy(ctx context.Context, policy string) bool {
	policies, ok := GetPolicies(ctx)
	if !ok {
		return false
	}
	for _, p := range policies {
		if p == policy {
			return true
		}
	}
	return false
}
