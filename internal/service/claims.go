package service

import (
	"context"
	"sort"

	"mentora/internal/model/auth"
)

// RoleFinder 角色查询依赖
type RoleFinder interface {
	FindByNames(ctx context.Context, names []string) ([]*auth.Role, error)
}

// ClaimsResolver 授权策略解析器
// 把用户的角色集合展开为去重后的策略字符串集合，令牌签发方不感知角色的存储方式
type ClaimsResolver interface {
	Resolve(ctx context.Context, user *auth.User) ([]string, error)
}

// RoleClaimsResolver 基于角色集合的ClaimsResolver实现
type RoleClaimsResolver struct {
	roles RoleFinder
}

// NewRoleClaimsResolver 创建ClaimsResolver
func NewRoleClaimsResolver(roles RoleFinder) *RoleClaimsResolver {
	return &RoleClaimsResolver{roles: roles}
}

// Resolve 解析用户的授权策略集合
// 用户无角色或角色未知时返回空集合，不报错
func (r *RoleClaimsResolver) Resolve(ctx context.Context, user *auth.User) ([]string, error) {
	if len(user.Roles) == 0 {
		return []string{}, nil
	}

	roles, err := r.roles.FindByNames(ctx, user.Roles)
	if err != nil {
		return nil, err
	}

	// 合并去重
	seen := make(map[string]struct{})
	policies := make([]string, 0)
	for _, role := range roles {
		for _, p := range role.Policies {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			policies = append(policies, p)
		}
	}

	sort.Strings(policies)
	return policies, nil
}
