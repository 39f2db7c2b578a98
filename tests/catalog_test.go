package tests

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"mentora/internal/service"
)

func TestCatalog_CourseLifecycle(t *testing.T) {
	Convey("课程生命周期（真实MongoDB）", t, func() {
		now := time.Now()
		course, err := testCatalogSvc.CreateCourse(testCtx, "Go实战", "从零构建Web服务", &now)
		So(err, ShouldBeNil)
		So(course.ID, ShouldNotBeEmpty)
		So(course.IsPublished(), ShouldBeTrue)

		Convey("课程详情包含平均评分", func() {
			detail, err := testCatalogSvc.GetCourse(testCtx, course.ID)
			So(err, ShouldBeNil)
			So(detail.Course.Title, ShouldEqual, "Go实战")
			So(detail.AverageScore, ShouldEqual, 0.0)
		})

		Convey("关联讲师与价格", func() {
			instructor, err := testCatalogSvc.CreateInstructor(testCtx, "伟", "张", "PhD")
			So(err, ShouldBeNil)
			So(testCatalogSvc.AssignInstructor(testCtx, course.ID, instructor.ID), ShouldBeNil)

			price, err := testCatalogSvc.CreatePrice(testCtx, "标准价", 19900, 9900)
			So(err, ShouldBeNil)
			So(testCatalogSvc.AssignPrice(testCtx, course.ID, price.ID), ShouldBeNil)

			detail, err := testCatalogSvc.GetCourse(testCtx, course.ID)
			So(err, ShouldBeNil)
			So(detail.Course.InstructorIDs, ShouldContain, instructor.ID)
			So(detail.Course.PriceIDs, ShouldContain, price.ID)
		})

		Convey("评分影响平均分", func() {
			_, err := testCatalogSvc.CreateRating(testCtx, course.ID, "student-1", 5, "很棒")
			So(err, ShouldBeNil)
			_, err = testCatalogSvc.CreateRating(testCtx, course.ID, "student-2", 3, "")
			So(err, ShouldBeNil)

			detail, err := testCatalogSvc.GetCourse(testCtx, course.ID)
			So(err, ShouldBeNil)
			So(detail.AverageScore, ShouldEqual, 4.0)

			Convey("非法分数被拒绝", func() {
				_, err := testCatalogSvc.CreateRating(testCtx, course.ID, "student-3", 6, "")
				So(err, ShouldEqual, service.ErrInvalidScore)
			})
		})

		Convey("删除后查询返回ErrCourseNotFound", func() {
			So(testCatalogSvc.DeleteCourse(testCtx, course.ID), ShouldBeNil)

			_, err := testCatalogSvc.GetCourse(testCtx, course.ID)
			So(err, ShouldEqual, service.ErrCourseNotFound)
		})
	})
}

func TestCatalog_ListCourses(t *testing.T) {
	Convey("课程列表分页与过滤（真实MongoDB）", t, func() {
		for _, title := range []string{"分页课程A", "分页课程B", "分页课程C"} {
			_, err := testCatalogSvc.CreateCourse(testCtx, title, "desc", nil)
			So(err, ShouldBeNil)
		}

		result, err := testCatalogSvc.ListCourses(testCtx, service.ListCoursesParams{
			Page:     1,
			PageSize: 2,
			Title:    "分页课程",
			SortBy:   "title",
		})
		So(err, ShouldBeNil)
		So(result.Total, ShouldBeGreaterThanOrEqualTo, 3)
		So(len(result.Courses), ShouldEqual, 2)
		So(result.Courses[0].Title, ShouldEqual, "分页课程A")
	})
}
