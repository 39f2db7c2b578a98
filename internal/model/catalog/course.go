package catalog

import (
	"time"
)

// Course 课程实体
type Course struct {
	ID              string        `bson:"_id,omitempty" json:"id"`                                      // UUID格式的ID
	Title           string        `bson:"title" json:"title"`                                           // 标题（必填）
	Description     string        `bson:"description" json:"description"`                               // 详细描述（必填）
	PublicationDate *time.Time    `bson:"publication_date,omitempty" json:"publication_date,omitempty"` // 发布时间，草稿为空
	InstructorIDs   []string      `bson:"instructor_ids,omitempty" json:"instructor_ids,omitempty"`     // 关联讲师
	PriceIDs        []string      `bson:"price_ids,omitempty" json:"price_ids,omitempty"`               // 关联价格
	Photos          []CoursePhoto `bson:"photos,omitempty" json:"photos,omitempty"`                     // 课程图片
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}

// CoursePhoto 课程图片（内嵌文档）
type CoursePhoto struct {
	ID  string `bson:"id" json:"id"`   // UUID格式的ID
	Key string `bson:"key" json:"key"` // 存储对象key
	URL string `bson:"url" json:"url"` // 访问URL
}

// IsPublished 课程是否已发布
func (c *Course) IsPublished() bool {
	return c.PublicationDate != nil && !c.PublicationDate.After(time.Now())
}
