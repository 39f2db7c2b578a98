package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"mentora/internal/pkg/ctxutil"
	"mentora/internal/pkg/jwt"
)

func newAuthTestRouter(j *jwt.JWT) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(j), func(c *gin.Context) {
		userID, _ := ctxutil.GetUserID(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	r.GET("/admin", Auth(j), RequirePolicy("COURSE_DELETE"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	Convey("Auth 认证中间件", t, func() {
		j := jwt.NewJWT("test-secret-key-at-least-32-bytes!!", time.Hour)
		router := newAuthTestRouter(j)

		Convey("携带有效Token通过并注入用户信息", func() {
			token, err := j.GenerateToken("user-1", "alice", "alice@example.com", "", []string{"COURSE_READ"})
			So(err, ShouldBeNil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			router.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "user-1")
		})

		Convey("缺失Authorization头返回401", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			router.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("非Bearer格式返回401", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Basic abc")
			router.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("过期Token返回401", func() {
			expired := jwt.NewJWT("test-secret-key-at-least-32-bytes!!", -time.Hour)
			token, err := expired.GenerateToken("user-1", "alice", "alice@example.com", "", nil)
			So(err, ShouldBeNil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			router.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusUnauthorized)
			So(w.Body.String(), ShouldContainSubstring, "Token无效或已过期")
		})
	})
}

func TestRequirePolicyMiddleware(t *testing.T) {
	Convey("RequirePolicy 策略中间件", t, func() {
		j := jwt.NewJWT("test-secret-key-at-least-32-bytes!!", time.Hour)
		router := newAuthTestRouter(j)

		Convey("具备策略的用户通过", func() {
			token, err := j.GenerateToken("admin-1", "root", "root@example.com", "",
				[]string{"COURSE_READ", "COURSE_DELETE"})
			So(err, ShouldBeNil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			router.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("缺少策略返回403", func() {
			token, err := j.GenerateToken("user-1", "alice", "alice@example.com", "",
				[]string{"COURSE_READ"})
			So(err, ShouldBeNil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			router.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusForbidden)
		})
	})
}
