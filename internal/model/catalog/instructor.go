package catalog

import (
	"time"
)

// Instructor 讲师实体
type Instructor struct {
	ID        string    `bson:"_id,omitempty" json:"id"`               // UUID格式的ID
	FirstName string    `bson:"first_name" json:"first_name"`          // 名（必填）
	LastName  string    `bson:"last_name" json:"last_name"`            // 姓（必填）
	Degree    string    `bson:"degree,omitempty" json:"degree,omitempty"` // 学位/头衔，可空
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
