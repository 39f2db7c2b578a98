package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mentora/internal/model/auth"
)

// RoleRepo 角色仓库
// 角色名即 _id
type RoleRepo struct {
	collection *mongo.Collection
}

// NewRoleRepo 创建角色仓库
func NewRoleRepo(db *mongo.Database) *RoleRepo {
	return &RoleRepo{
		collection: db.Collection("roles"),
	}
}

// FindByNames 批量查询角色
// 未知角色名直接忽略，不报错
func (r *RoleRepo) FindByNames(ctx context.Context, names []string) ([]*auth.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": names}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []*auth.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}

	return roles, nil
}

// Upsert 写入角色（存在则整体替换）
// 用于启动时落内置角色
func (r *RoleRepo) Upsert(ctx context.Context, role *auth.Role) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": role.Name}, role, opts)
	return err
}

// EnsureDefaults 确保内置角色存在
func (r *RoleRepo) EnsureDefaults(ctx context.Context) error {
	for _, role := range auth.DefaultRoles() {
		if err := r.Upsert(ctx, role); err != nil {
			return err
		}
	}
	return nil
}
