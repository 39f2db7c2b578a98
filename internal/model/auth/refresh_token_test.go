package auth

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRefreshToken_IsActive(t *testing.T) {
	Convey("RefreshToken.IsActive 状态判断", t, func() {
		now := time.Now()

		Convey("未撤销且未过期时可用", func() {
			rt := &RefreshToken{ExpiresAt: now.Add(time.Hour)}
			So(rt.IsActive(), ShouldBeTrue)
		})

		Convey("已撤销时不可用", func() {
			rt := &RefreshToken{ExpiresAt: now.Add(time.Hour), IsRevoked: true}
			So(rt.IsActive(), ShouldBeFalse)
		})

		Convey("已过期时不可用", func() {
			rt := &RefreshToken{ExpiresAt: now.Add(-time.Hour)}
			So(rt.IsActive(), ShouldBeFalse)
		})

		Convey("过期时间恰好等于当前时刻视为已过期", func() {
			rt := &RefreshToken{ExpiresAt: now}
			So(rt.IsActiveAt(now), ShouldBeFalse)
		})

		Convey("过期时间晚于指定时刻一纳秒仍可用", func() {
			rt := &RefreshToken{ExpiresAt: now.Add(time.Nanosecond)}
			So(rt.IsActiveAt(now), ShouldBeTrue)
		})
	})
}

func TestRefreshToken_Revoke(t *testing.T) {
	Convey("RefreshToken.Revoke 撤销语义", t, func() {
		now := time.Now()
		rt := &RefreshToken{ExpiresAt: now.Add(time.Hour)}

		Convey("撤销后记录时间与原因", func() {
			rt.Revoke("manual revocation", now)
			So(rt.IsRevoked, ShouldBeTrue)
			So(rt.RevokedAt, ShouldNotBeNil)
			So(rt.RevokedAt.Equal(now), ShouldBeTrue)
			So(rt.RevokedReason, ShouldEqual, "manual revocation")

			Convey("重复撤销不覆盖原撤销时间与原因", func() {
				later := now.Add(time.Minute)
				rt.Revoke("replaced by new token", later)
				So(rt.RevokedAt.Equal(now), ShouldBeTrue)
				So(rt.RevokedReason, ShouldEqual, "manual revocation")
			})
		})
	})
}

func TestRefreshToken_TouchLastUsed(t *testing.T) {
	Convey("RefreshToken.TouchLastUsed 使用时间", t, func() {
		rt := &RefreshToken{}
		So(rt.LastUsedAt, ShouldBeNil)

		now := time.Now()
		rt.TouchLastUsed(now)
		So(rt.LastUsedAt, ShouldNotBeNil)
		So(rt.LastUsedAt.Equal(now), ShouldBeTrue)
	})
}
