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

// CourseRepo 课程仓库
type CourseRepo struct {
	collection *mongo.Collection
}

// NewCourseRepo 创建课程仓库
func NewCourseRepo(db *mongo.Database) *CourseRepo {
	return &CourseRepo{
		collection: db.Collection("courses"),
	}
}

// Create 创建课程
func (r *CourseRepo) Create(ctx context.Context, course *catalog.Course) error {
	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, course)
	return err
}

// FindByID 根据ID查询课程，不存在时返回 (nil, nil)
func (r *CourseRepo) FindByID(ctx context.Context, id string) (*catalog.Course, error) {
	var course catalog.Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

// Update 更新课程字段
func (r *CourseRepo) Update(ctx context.Context, id string, update bson.M) error {
	// 自动更新updated_at
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

// Delete 删除课程
func (r *CourseRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount == 1, nil
}

// List 查询课程列表（支持分页、标题过滤和排序）
func (r *CourseRepo) List(ctx context.Context, filter bson.M, sort bson.D, page, pageSize int64) ([]*catalog.Course, int64, error) {
	// 计算总数
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	// 分页选项
	opts := options.Find().
		SetSort(sort).
		SetLimit(pageSize).
		SetSkip((page - 1) * pageSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var courses []*catalog.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// AddInstructor 关联讲师（去重）
func (r *CourseRepo) AddInstructor(ctx context.Context, courseID, instructorID string) error {
	return r.Update(ctx, courseID, bson.M{
		"$addToSet": bson.M{"instructor_ids": instructorID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

// AddPrice 关联价格（去重）
func (r *CourseRepo) AddPrice(ctx context.Context, courseID, priceID string) error {
	return r.Update(ctx, courseID, bson.M{
		"$addToSet": bson.M{"price_ids": priceID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

// AddPhoto 追加课程图片
func (r *CourseRepo) AddPhoto(ctx context.Context, courseID string, photo catalog.CoursePhoto) error {
	return r.Update(ctx, courseID, bson.M{
		"$push": bson.M{"photos": photo},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}
