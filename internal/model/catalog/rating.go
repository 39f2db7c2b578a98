package catalog

import (
	"time"
)

// Rating 课程评分实体
type Rating struct {
	ID        string    `bson:"_id,omitempty" json:"id"`                  // UUID格式的ID
	CourseID  string    `bson:"course_id" json:"course_id"`               // 被评分课程
	Student   string    `bson:"student" json:"student"`                   // 评分学员
	Score     int       `bson:"score" json:"score"`                       // 分数（1-5）
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"` // 可选评论
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// 评分范围
const (
	MinScore = 1
	MaxScore = 5
)

// IsValidScore 检查分数是否在合法范围内
func IsValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}
