package tests

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"mentora/internal/pkg/id"
	"mentora/internal/service"
)

// newTestAccount 注册一个随机测试账号，返回邮箱和密码
func newTestAccount(t *testing.T) (email, pwd string) {
	suffix := id.New()[:8]
	email = fmt.Sprintf("it-%s@example.com", suffix)
	pwd = "integration-pwd-" + suffix

	_, err := testAuthSvc.Register(testCtx, "it-user-"+suffix, email, pwd, "Integration User")
	if err != nil {
		t.Fatalf("register test account: %v", err)
	}
	return email, pwd
}

func TestAuthFlow_LoginRefreshRevoke(t *testing.T) {
	Convey("登录→刷新→撤销 完整凭证生命周期（真实MongoDB）", t, func() {
		email, pwd := newTestAccount(t)

		login, err := testAuthSvc.Login(testCtx, email, pwd, "198.51.100.7", "integration-test")
		So(err, ShouldBeNil)
		So(login.AccessToken, ShouldNotBeEmpty)
		So(login.RefreshToken, ShouldNotBeEmpty)

		Convey("Refresh Token已持久化且可用", func() {
			stored, err := testTokenRepo.FindByToken(testCtx, login.RefreshToken)
			So(err, ShouldBeNil)
			So(stored, ShouldNotBeNil)
			So(stored.IsActive(), ShouldBeTrue)
			So(stored.IPAddress, ShouldEqual, "198.51.100.7")
		})

		Convey("刷新换取新凭证，旧Token单次可用", func() {
			pair, err := testAuthSvc.Refresh(testCtx, login.RefreshToken, "198.51.100.8", "integration-test")
			So(err, ShouldBeNil)
			So(pair.RefreshToken, ShouldNotEqual, login.RefreshToken)

			old, err := testTokenRepo.FindByToken(testCtx, login.RefreshToken)
			So(err, ShouldBeNil)
			So(old.IsRevoked, ShouldBeTrue)
			So(old.RevokedReason, ShouldEqual, service.ReasonReplaced)
			So(old.LastUsedAt, ShouldNotBeNil)

			_, err = testAuthSvc.Refresh(testCtx, login.RefreshToken, "", "")
			So(err, ShouldEqual, service.ErrInvalidOrExpiredToken)

			Convey("撤销新Token后刷新同样被拒", func() {
				revoked, err := testAuthSvc.RevokeToken(testCtx, pair.RefreshToken, "", "")
				So(err, ShouldBeNil)
				So(revoked, ShouldBeTrue)

				_, err = testAuthSvc.Refresh(testCtx, pair.RefreshToken, "", "")
				So(err, ShouldEqual, service.ErrInvalidOrExpiredToken)
			})
		})
	})
}

func TestAuthFlow_RevokeAll(t *testing.T) {
	Convey("退出所有设备（真实MongoDB）", t, func() {
		email, pwd := newTestAccount(t)

		first, err := testAuthSvc.Login(testCtx, email, pwd, "", "device-1")
		So(err, ShouldBeNil)
		second, err := testAuthSvc.Login(testCtx, email, pwd, "", "device-2")
		So(err, ShouldBeNil)

		revoked, err := testAuthSvc.RevokeAllTokens(testCtx, first.User.ID, "")
		So(err, ShouldBeNil)
		So(revoked, ShouldBeTrue)

		for _, tok := range []string{first.RefreshToken, second.RefreshToken} {
			_, err := testAuthSvc.Refresh(testCtx, tok, "", "")
			So(err, ShouldEqual, service.ErrInvalidOrExpiredToken)
		}

		Convey("再次全量撤销返回false", func() {
			revoked, err := testAuthSvc.RevokeAllTokens(testCtx, first.User.ID, "")
			So(err, ShouldBeNil)
			So(revoked, ShouldBeFalse)
		})
	})
}
