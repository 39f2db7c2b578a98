package catalog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mentora/internal/model/catalog"
)

// RatingRepo 评分仓库
type RatingRepo struct {
	collection *mongo.Collection
}

// NewRatingRepo 创建评分仓库
func NewRatingRepo(db *mongo.Database) *RatingRepo {
	return &RatingRepo{
		collection: db.Collection("ratings"),
	}
}

// Create 创建评分
func (r *RatingRepo) Create(ctx context.Context, rating *catalog.Rating) error {
	rating.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, rating)
	return err
}

// ListByCourse 查询课程评分列表（分页，新评分在前）
func (r *RatingRepo) ListByCourse(ctx context.Context, courseID string, page, pageSize int64) ([]*catalog.Rating, int64, error) {
	filter := bson.M{"course_id": courseID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(pageSize).
		SetSkip((page - 1) * pageSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var ratings []*catalog.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, 0, err
	}

	return ratings, total, nil
}

// AverageScore 计算课程平均分
// 无评分时返回0
func (r *RatingRepo) AverageScore(ctx context.Context, courseID string) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{bson.E{Key: "$match", Value: bson.M{"course_id": courseID}}},
		bson.D{bson.E{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$score"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}

	return results[0].Avg, nil
}
