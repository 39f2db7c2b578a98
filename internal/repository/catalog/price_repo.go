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

// PriceRepo 价格仓库
type PriceRepo struct {
	collection *mongo.Collection
}

// NewPriceRepo 创建价格仓库
func NewPriceRepo(db *mongo.Database) *PriceRepo {
	return &PriceRepo{
		collection: db.Collection("prices"),
	}
}

// Create 创建价格
func (r *PriceRepo) Create(ctx context.Context, price *catalog.Price) error {
	now := time.Now()
	price.CreatedAt = now
	price.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, price)
	return err
}

// FindByID 根据ID查询价格，不存在时返回 (nil, nil)
func (r *PriceRepo) FindByID(ctx context.Context, id string) (*catalog.Price, error) {
	var price catalog.Price
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&price)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

// List 查询价格列表（分页）
func (r *PriceRepo) List(ctx context.Context, page, pageSize int64) ([]*catalog.Price, int64, error) {
	filter := bson.M{}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "name", Value: 1}}).
		SetLimit(pageSize).
		SetSkip((page - 1) * pageSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var prices []*catalog.Price
	if err := cursor.All(ctx, &prices); err != nil {
		return nil, 0, err
	}

	return prices, total, nil
}
