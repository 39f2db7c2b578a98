package catalog

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mentora/internal/model/catalog"
)

// InstructorRepo 讲师仓库
type InstructorRepo struct {
	collection *mongo.Collection
}

// NewInstructorRepo 创建讲师仓库
func NewInstructorRepo(db *mongo.Database) *InstructorRepo {
	return &InstructorRepo{
		collection: db.Collection("instructors"),
	}
}

// Create 创建讲师
func (r *InstructorRepo) Create(ctx context.Context, instructor *catalog.Instructor) error {
	now := time.Now()
	instructor.CreatedAt = now
	instructor.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, instructor)
	return err
}

// FindByID 根据ID查询讲师，不存在时返回 (nil, nil)
func (r *InstructorRepo) FindByID(ctx context.Context, id string) (*catalog.Instructor, error) {
	var instructor catalog.Instructor
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&instructor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &instructor, nil
}

// Update 更新讲师字段
func (r *InstructorRepo) Update(ctx context.Context, id string, update bson.M) error {
	if setDoc, ok := update["$set"].(bson.M); ok {
		setDoc["updated_at"] = time.Now()
	} else {
		update["$set"] = bson.M{"updated_at": time.Now()}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List 查询讲师列表（分页）
func (r *InstructorRepo) List(ctx context.Context, page, pageSize int64) ([]*catalog.Instructor, int64, error) {
	filter := bson.M{}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "last_name", Value: 1}}).
		SetLimit(pageSize).
		SetSkip((page - 1) * pageSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var instructors []*catalog.Instructor
	if err := cursor.All(ctx, &instructors); err != nil {
		return nil, 0, err
	}

	return instructors, total, nil
}
