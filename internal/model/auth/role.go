package auth

// Role 角色实体
// 角色名作为主键，挂载一组授权策略
type Role struct {
	Name     string   `bson:"_id" json:"name"`         // 角色名（ADMIN/CLIENT）
	Policies []string `bson:"policies" json:"policies"` // 授权策略集合
}

// 内置角色
const (
	RoleAdmin  = "ADMIN"  // 管理员：课程、讲师、价格全量管理
	RoleClient = "CLIENT" // 客户：浏览课程、发表评分
)

// 授权策略，命名模式为 实体_操作
const (
	PolicyCourseRead       = "COURSE_READ"
	PolicyCourseWrite      = "COURSE_WRITE"
	PolicyCourseUpdate     = "COURSE_UPDATE"
	PolicyCourseDelete     = "COURSE_DELETE"
	PolicyInstructorRead   = "INSTRUCTOR_READ"
	PolicyInstructorCreate = "INSTRUCTOR_CREATE"
	PolicyInstructorUpdate = "INSTRUCTOR_UPDATE"
	PolicyCommentRead      = "COMMENT_READ"
	PolicyCommentCreate    = "COMMENT_CREATE"
	PolicyCommentDelete    = "COMMENT_DELETE"
)

// DefaultRoles 内置角色及其策略，用于初始化数据
func DefaultRoles() []*Role {
	return []*Role{
		{
			Name: RoleAdmin,
			Policies: []string{
				PolicyCourseRead, PolicyCourseWrite, PolicyCourseUpdate, PolicyCourseDelete,
				PolicyInstructorRead, PolicyInstructorCreate, PolicyInstructorUpdate,
				PolicyCommentRead, PolicyCommentCreate, PolicyCommentDelete,
			},
		},
		{
			Name: RoleClient,
			Policies: []string{
				PolicyCourseRead,
				PolicyInstructorRead,
				PolicyCommentRead, PolicyCommentCreate,
			},
		},
	}
}
