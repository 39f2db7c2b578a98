package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"mentora/internal/model/catalog"
	"mentora/internal/pkg/cache"
	"mentora/internal/pkg/id"
	"mentora/internal/pkg/storage"
	catalogRepo "mentora/internal/repository/catalog"
)

var (
	ErrCourseNotFound     = errors.New("课程不存在")
	ErrInstructorNotFound = errors.New("讲师不存在")
	ErrPriceNotFound      = errors.New("价格不存在")
	ErrInvalidScore       = errors.New("评分必须在1-5之间")
	ErrStorageDisabled    = errors.New("存储未配置")
)

// 课程列表允许的排序字段
var courseSortFields = map[string]bool{
	"title":      true,
	"created_at": true,
}

// CatalogService 课程目录服务
// cache和store可为nil（未配置时对应能力降级）
type CatalogService struct {
	courses     *catalogRepo.CourseRepo
	instructors *catalogRepo.InstructorRepo
	prices      *catalogRepo.PriceRepo
	ratings     *catalogRepo.RatingRepo
	cache       *cache.RedisCache
	store       storage.Storage
}

// NewCatalogService 创建课程目录服务
func NewCatalogService(
	courses *catalogRepo.CourseRepo,
	instructors *catalogRepo.InstructorRepo,
	prices *catalogRepo.PriceRepo,
	ratings *catalogRepo.RatingRepo,
	redisCache *cache.RedisCache,
	store storage.Storage,
) *CatalogService {
	return &CatalogService{
		courses:     courses,
		instructors: instructors,
		prices:      prices,
		ratings:     ratings,
		cache:       redisCache,
		store:       store,
	}
}

// CreateCourse 创建课程
func (s *CatalogService) CreateCourse(ctx context.Context, title, description string, publicationDate *time.Time) (*catalog.Course, error) {
	course := &catalog.Course{
		ID:              id.New(),
		Title:           title,
		Description:     description,
		PublicationDate: publicationDate,
	}

	if err := s.courses.Create(ctx, course); err != nil {
		log.Error().Err(err).Msg("failed to create course")
		return nil, fmt.Errorf("create course: %w", err)
	}

	return course, nil
}

// CourseDetail 课程详情（含均分）
type CourseDetail struct {
	Course       *catalog.Course `json:"course"`
	AverageScore float64         `json:"average_score"`
}

// GetCourse 获取课程详情
// 命中缓存直接返回，缓存未配置时穿透到MongoDB
func (s *CatalogService) GetCourse(ctx context.Context, courseID string) (*CourseDetail, error) {
	if s.cache != nil {
		var cached CourseDetail
		if err := s.cache.Get(ctx, cache.CourseCacheKey(courseID), &cached); err == nil {
			return &cached, nil
		}
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	avg, err := s.ratings.AverageScore(ctx, courseID)
	if err != nil {
		log.Warn().Err(err).Str("course_id", courseID).Msg("failed to compute average score")
		avg = 0
	}

	detail := &CourseDetail{
		Course:       course,
		AverageScore: avg,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.CourseCacheKey(courseID), detail, cache.CourseCacheTTL); err != nil {
			log.Warn().Err(err).Str("course_id", courseID).Msg("failed to cache course")
		}
	}

	return detail, nil
}

// ListCoursesParams 课程列表查询参数
type ListCoursesParams struct {
	Page     int64
	PageSize int64
	Title    string // 标题模糊过滤，可空
	SortBy   string // title/created_at
	Desc     bool
}

// CourseList 课程列表结果
type CourseList struct {
	Courses  []*catalog.Course `json:"courses"`
	Total    int64             `json:"total"`
	Page     int64             `json:"page"`
	PageSize int64             `json:"page_size"`
}

// ListCourses 分页查询课程
func (s *CatalogService) ListCourses(ctx context.Context, params ListCoursesParams) (*CourseList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	filter := bson.M{}
	if params.Title != "" {
		filter["title"] = bson.M{"$regex": params.Title, "$options": "i"}
	}

	// 排序字段白名单，未知字段回退到created_at
	sortBy := params.SortBy
	if !courseSortFields[sortBy] {
		sortBy = "created_at"
	}
	order := 1
	if params.Desc || params.SortBy == "" {
		order = -1
	}
	sort := bson.D{bson.E{Key: sortBy, Value: order}}

	courses, total, err := s.courses.List(ctx, filter, sort, params.Page, params.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	return &CourseList{
		Courses:  courses,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

// UpdateCourse 更新课程
func (s *CatalogService) UpdateCourse(ctx context.Context, courseID, title, description string, publicationDate *time.Time) error {
	set := bson.M{}
	if title != "" {
		set["title"] = title
	}
	if description != "" {
		set["description"] = description
	}
	if publicationDate != nil {
		set["publication_date"] = publicationDate
	}
	if len(set) == 0 {
		return nil
	}

	if err := s.courses.Update(ctx, courseID, bson.M{"$set": set}); err != nil {
		return s.mapCourseErr(err)
	}

	s.invalidateCourse(ctx, courseID)
	return nil
}

// DeleteCourse 删除课程
func (s *CatalogService) DeleteCourse(ctx context.Context, courseID string) error {
	deleted, err := s.courses.Delete(ctx, courseID)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if !deleted {
		return ErrCourseNotFound
	}

	s.invalidateCourse(ctx, courseID)
	return nil
}

// CreateInstructor 创建讲师
func (s *CatalogService) CreateInstructor(ctx context.Context, firstName, lastName, degree string) (*catalog.Instructor, error) {
	instructor := &catalog.Instructor{
		ID:        id.New(),
		FirstName: firstName,
		LastName:  lastName,
		Degree:    degree,
	}

	if err := s.instructors.Create(ctx, instructor); err != nil {
		log.Error().Err(err).Msg("failed to create instructor")
		return nil, fmt.Errorf("create instructor: %w", err)
	}

	return instructor, nil
}

// ListInstructors 分页查询讲师
func (s *CatalogService) ListInstructors(ctx context.Context, page, pageSize int64) ([]*catalog.Instructor, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.instructors.List(ctx, page, pageSize)
}

// AssignInstructor 把讲师关联到课程
func (s *CatalogService) AssignInstructor(ctx context.Context, courseID, instructorID string) error {
	instructor, err := s.instructors.FindByID(ctx, instructorID)
	if err != nil {
		return fmt.Errorf("find instructor: %w", err)
	}
	if instructor == nil {
		return ErrInstructorNotFound
	}

	if err := s.courses.AddInstructor(ctx, courseID, instructorID); err != nil {
		return s.mapCourseErr(err)
	}

	s.invalidateCourse(ctx, courseID)
	return nil
}

// CreatePrice 创建价格
func (s *CatalogService) CreatePrice(ctx context.Context, name string, currentPrice, promotionalPrice int64) (*catalog.Price, error) {
	if promotionalPrice <= 0 {
		promotionalPrice = currentPrice
	}

	price := &catalog.Price{
		ID:               id.New(),
		Name:             name,
		CurrentPrice:     currentPrice,
		PromotionalPrice: promotionalPrice,
	}

	if err := s.prices.Create(ctx, price); err != nil {
		log.Error().Err(err).Msg("failed to create price")
		return nil, fmt.Errorf("create price: %w", err)
	}

	return price, nil
}

// ListPrices 分页查询价格
func (s *CatalogService) ListPrices(ctx context.Context, page, pageSize int64) ([]*catalog.Price, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.prices.List(ctx, page, pageSize)
}

// AssignPrice 把价格关联到课程
func (s *CatalogService) AssignPrice(ctx context.Context, courseID, priceID string) error {
	price, err := s.prices.FindByID(ctx, priceID)
	if err != nil {
		return fmt.Errorf("find price: %w", err)
	}
	if price == nil {
		return ErrPriceNotFound
	}

	if err := s.courses.AddPrice(ctx, courseID, priceID); err != nil {
		return s.mapCourseErr(err)
	}

	s.invalidateCourse(ctx, courseID)
	return nil
}

// CreateRating 创建课程评分
func (s *CatalogService) CreateRating(ctx context.Context, courseID, student string, score int, comment string) (*catalog.Rating, error) {
	if !catalog.IsValidScore(score) {
		return nil, ErrInvalidScore
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	rating := &catalog.Rating{
		ID:       id.New(),
		CourseID: courseID,
		Student:  student,
		Score:    score,
		Comment:  comment,
	}

	if err := s.ratings.Create(ctx, rating); err != nil {
		log.Error().Err(err).Msg("failed to create rating")
		return nil, fmt.Errorf("create rating: %w", err)
	}

	// 均分已变化，失效课程缓存
	s.invalidateCourse(ctx, courseID)

	return rating, nil
}

// ListRatings 分页查询课程评分
func (s *CatalogService) ListRatings(ctx context.Context, courseID string, page, pageSize int64) ([]*catalog.Rating, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.ratings.ListByCourse(ctx, courseID, page, pageSize)
}

// UploadCoursePhoto 上传课程图片
func (s *CatalogService) UploadCoursePhoto(ctx context.Context, courseID, filename, contentType string, data io.Reader) (*catalog.CoursePhoto, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	photoID := id.New()
	key := fmt.Sprintf("courses/%s/photos/%s%s", courseID, photoID, path.Ext(filename))

	url, err := s.store.Upload(ctx, key, data, contentType)
	if err != nil {
		log.Error().Err(err).Str("course_id", courseID).Msg("failed to upload course photo")
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	photo := catalog.CoursePhoto{
		ID:  photoID,
		Key: key,
		URL: url,
	}

	if err := s.courses.AddPhoto(ctx, courseID, photo); err != nil {
		// 文档更新失败时回收已上传的对象
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("failed to clean up orphan photo")
		}
		return nil, s.mapCourseErr(err)
	}

	s.invalidateCourse(ctx, courseID)
	return &photo, nil
}

// invalidateCourse 失效课程缓存，失败仅记录日志
func (s *CatalogService) invalidateCourse(ctx context.Context, courseID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.CourseCacheKey(courseID)); err != nil {
		log.Warn().Err(err).Str("course_id", courseID).Msg("failed to invalidate course cache")
	}
}

// mapCourseErr 把仓库层的未命中映射为课程不存在
func (s *CatalogService) mapCourseErr(err error) error {
	if errors.Is(err, catalogRepo.ErrNotFound) {
		return ErrCourseNotFound
	}
	return err
}
