package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mentora/internal/model/auth"
)

// ErrDuplicateToken Token值插入冲突
// 唯一索引保证全局唯一；调用方应重新生成Token重试，而不是把该错误透给终端用户
var ErrDuplicateToken = errors.New("refresh token already exists")

// RefreshTokenRepo RefreshToken仓库
// 集合是Token记录的唯一属主，所有状态变更都走这里的Insert/Revoke/MarkUsed
type RefreshTokenRepo struct {
	collection *mongo.Collection
}

// NewRefreshTokenRepo 创建RefreshToken仓库
func NewRefreshTokenRepo(db *mongo.Database) *RefreshTokenRepo {
	return &RefreshTokenRepo{
		collection: db.Collection("refresh_tokens"),
	}
}

// Insert 插入RefreshToken
// token字段存在唯一索引，碰撞时返回ErrDuplicateToken
func (r *RefreshTokenRepo) Insert(ctx context.Context, token *auth.RefreshToken) error {
	_, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateToken
		}
		return err
	}
	return nil
}

// FindByToken 根据Token值查询
// 不存在时返回 (nil, nil)
func (r *RefreshTokenRepo) FindByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	var refreshToken auth.RefreshToken
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&refreshToken)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &refreshToken, nil
}

// FindActiveByUser 查询用户当前可用的所有Token
// 一个用户可同时持有多个可用Token（多设备会话）
func (r *RefreshTokenRepo) FindActiveByUser(ctx context.Context, userID string) ([]*auth.RefreshToken, error) {
	filter := bson.M{
		"user_id":    userID,
		"is_revoked": false,
		"expires_at": bson.M{"$gt": time.Now()},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tokens []*auth.RefreshToken
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}

	return tokens, nil
}

// MarkUsed 更新Token最近使用时间
func (r *RefreshTokenRepo) MarkUsed(ctx context.Context, id string, at time.Time) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_used_at": at}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("refresh token not found")
	}
	return nil
}

// Revoke 条件撤销Token
// 只在记录尚未撤销时更新（同一Token的并发轮换在这里串行化，恰有一方胜出），
// 已撤销的记录保持原撤销时间与原因不变
// 返回值表示本次调用是否真正完成了撤销
func (r *RefreshTokenRepo) Revoke(ctx context.Context, id, reason string, at time.Time) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "is_revoked": false},
		bson.M{"$set": bson.M{
			"is_revoked":     true,
			"revoked_at":     at,
			"revoked_reason": reason,
		}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// CountByUser 统计用户名下Token总数（含已撤销、已过期，审计用）
func (r *RefreshTokenRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
}
