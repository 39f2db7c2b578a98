package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes 创建所有集合的索引
// 在应用启动时调用一次
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	// users 集合索引
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "username", Value: 1}},
			Options: options.Index().SetName("idx_username").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email").SetUnique(true),
		},
	}
	if err := createIndexes(ctx, db.Collection("users"), userIndexes); err != nil {
		return err
	}

	// refresh_tokens 集合索引
	// token 唯一索引是轮换协议防重放的落点：插入碰撞直接报错而不是静默覆盖
	refreshTokenIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "token", Value: 1}},
			Options: options.Index().SetName("idx_token").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_user"),
		},
		{
			Keys:    bson.D{bson.E{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_expires"),
		},
	}
	if err := createIndexes(ctx, db.Collection("refresh_tokens"), refreshTokenIndexes); err != nil {
		return err
	}

	// courses 集合索引
	courseIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "title", Value: 1}},
			Options: options.Index().SetName("idx_title"),
		},
		{
			Keys:    bson.D{bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created"),
		},
	}
	if err := createIndexes(ctx, db.Collection("courses"), courseIndexes); err != nil {
		return err
	}

	// ratings 集合索引
	ratingIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "course_id", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_course_created"),
		},
	}
	if err := createIndexes(ctx, db.Collection("ratings"), ratingIndexes); err != nil {
		return err
	}

	return nil
}

// createIndexes 为集合批量创建索引
func createIndexes(ctx context.Context, coll *mongo.Collection, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
