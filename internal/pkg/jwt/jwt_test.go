package jwt

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestJWT_GenerateAndValidate(t *testing.T) {
	Convey("JWT 生成与验证", t, func() {
		j := NewJWT("test-secret-key-at-least-32-bytes!!", 7*24*time.Hour)

		Convey("生成的Token能被成功验证，Claims完整", func() {
			token, err := j.GenerateToken("user-1", "alice", "alice@example.com", "Alice Liu",
				[]string{"COURSE_READ", "COMMENT_CREATE"})
			So(err, ShouldBeNil)
			So(token, ShouldNotBeEmpty)

			claims, err := j.ValidateToken(token)
			So(err, ShouldBeNil)
			So(claims.UserID, ShouldEqual, "user-1")
			So(claims.Username, ShouldEqual, "alice")
			So(claims.Email, ShouldEqual, "alice@example.com")
			So(claims.FullName, ShouldEqual, "Alice Liu")
			So(claims.Policies, ShouldResemble, []string{"COURSE_READ", "COMMENT_CREATE"})
		})

		Convey("过期时间为签发时刻加固定时长", func() {
			before := time.Now()
			token, err := j.GenerateToken("user-1", "alice", "alice@example.com", "", nil)
			So(err, ShouldBeNil)

			claims, err := j.ValidateToken(token)
			So(err, ShouldBeNil)

			expected := before.Add(7 * 24 * time.Hour)
			diff := claims.ExpiresAt.Time.Sub(expected)
			So(diff, ShouldBeGreaterThanOrEqualTo, -time.Second)
			So(diff, ShouldBeLessThanOrEqualTo, 5*time.Second)
		})

		Convey("错误密钥签名的Token验证失败", func() {
			other := NewJWT("another-secret-key-also-32-bytes!!!", 7*24*time.Hour)
			token, err := other.GenerateToken("user-1", "alice", "alice@example.com", "", nil)
			So(err, ShouldBeNil)

			_, err = j.ValidateToken(token)
			So(err, ShouldEqual, ErrInvalidToken)
		})

		Convey("已过期的Token返回ErrExpiredToken", func() {
			expired := NewJWT("test-secret-key-at-least-32-bytes!!", -time.Hour)
			token, err := expired.GenerateToken("user-1", "alice", "alice@example.com", "", nil)
			So(err, ShouldBeNil)

			_, err = j.ValidateToken(token)
			So(err, ShouldEqual, ErrExpiredToken)
		})

		Convey("畸形字符串验证失败", func() {
			_, err := j.ValidateToken("not-a-jwt")
			So(err, ShouldEqual, ErrInvalidToken)
		})
	})
}

func TestGenerateRefreshToken(t *testing.T) {
	Convey("Refresh Token 生成", t, func() {
		Convey("生成的Token非空且长度稳定", func() {
			token, err := GenerateRefreshToken()
			So(err, ShouldBeNil)
			// 64字节base64编码后固定88字符
			So(len(token), ShouldEqual, 88)
		})

		Convey("连续生成不重复", func() {
			seen := make(map[string]bool)
			for i := 0; i < 10000; i++ {
				token, err := GenerateRefreshToken()
				So(err, ShouldBeNil)
				So(seen[token], ShouldBeFalse)
				seen[token] = true
			}
		})
	})
}
