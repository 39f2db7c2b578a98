package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"mentora/internal/model/auth"
	"mentora/internal/pkg/password"
	authRepo "mentora/internal/repository/auth"
)

// fakeUserStore 内存用户存储
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*auth.User // by ID
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*auth.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *auth.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) UpdateLastLoginAt(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

func (f *fakeUserStore) delete(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
}

// fakeTokenStore 内存RefreshToken存储
// Revoke实现与MongoDB条件更新相同的语义：仅当记录尚未撤销时生效
type fakeTokenStore struct {
	mu        sync.Mutex
	tokens    map[string]*auth.RefreshToken // by ID
	failNext  error                         // 下一次Insert返回的错误（一次性）
	insertErr error                         // 所有Insert固定返回的错误
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*auth.RefreshToken)}
}

func (f *fakeTokenStore) Insert(ctx context.Context, token *auth.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, t := range f.tokens {
		if t.Token == token.Token {
			return authRepo.ErrDuplicateToken
		}
	}
	clone := *token
	f.tokens[token.ID] = &clone
	return nil
}

func (f *fakeTokenStore) FindByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.Token == token {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeTokenStore) FindActiveByUser(ctx context.Context, userID string) ([]*auth.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	var result []*auth.RefreshToken
	for _, t := range f.tokens {
		if t.UserID == userID && !t.IsRevoked && t.ExpiresAt.After(now) {
			clone := *t
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeTokenStore) MarkUsed(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[id]; ok {
		t.TouchLastUsed(at)
	}
	return nil
}

func (f *fakeTokenStore) Revoke(ctx context.Context, id, reason string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[id]
	if !ok || t.IsRevoked {
		return false, nil
	}
	t.Revoke(reason, at)
	return true, nil
}

func (f *fakeTokenStore) get(id string) *auth.RefreshToken {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[id]; ok {
		clone := *t
		return &clone
	}
	return nil
}

func (f *fakeTokenStore) byValue(value string) *auth.RefreshToken {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.Token == value {
			clone := *t
			return &clone
		}
	}
	return nil
}

func (f *fakeTokenStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

func (f *fakeTokenStore) put(t *auth.RefreshToken) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *t
	f.tokens[t.ID] = &clone
}

const (
	testSecret = "test-secret-key-at-least-32-bytes!!"
	testEmail  = "alice@example.com"
	testPwd    = "s3cret-password"
)

func newTestService() (*AuthService, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	resolver := NewRoleClaimsResolver(newFakeRoleFinder())
	svc := NewAuthService(users, tokens, resolver, testSecret, 7*24*time.Hour, 90*24*time.Hour)
	return svc, users, tokens
}

func mustRegister(svc *AuthService) string {
	result, err := svc.Register(context.Background(), "alice", testEmail, testPwd, "Alice Liu")
	if err != nil {
		panic(err)
	}
	return result.UserID
}

func TestAuthService_Register(t *testing.T) {
	Convey("AuthService.Register 用户注册", t, func() {
		ctx := context.Background()
		svc, users, _ := newTestService()

		Convey("注册成功，密码以哈希存储，默认CLIENT角色", func() {
			result, err := svc.Register(ctx, "alice", testEmail, testPwd, "Alice Liu")
			So(err, ShouldBeNil)
			So(result.UserID, ShouldNotBeEmpty)

			user, _ := users.FindByID(ctx, result.UserID)
			So(user, ShouldNotBeNil)
			So(user.Password, ShouldNotEqual, testPwd)
			So(password.Verify(testPwd, user.Password), ShouldBeTrue)
			So(user.Roles, ShouldResemble, []string{auth.RoleClient})
		})

		Convey("用户名重复返回ErrUserAlreadyExists", func() {
			mustRegister(svc)
			_, err := svc.Register(ctx, "alice", "other@example.com", testPwd, "")
			So(err, ShouldEqual, ErrUserAlreadyExists)
		})

		Convey("邮箱重复返回ErrEmailTaken", func() {
			mustRegister(svc)
			_, err := svc.Register(ctx, "bob", testEmail, testPwd, "")
			So(err, ShouldEqual, ErrEmailTaken)
		})
	})
}

func TestAuthService_Login(t *testing.T) {
	Convey("AuthService.Login 登录签发", t, func() {
		ctx := context.Background()
		svc, _, tokens := newTestService()
		userID := mustRegister(svc)

		Convey("登录成功签发一对凭证并落库Refresh Token", func() {
			result, err := svc.Login(ctx, testEmail, testPwd, "203.0.113.9", "test-agent")
			So(err, ShouldBeNil)
			So(result.AccessToken, ShouldNotBeEmpty)
			So(result.RefreshToken, ShouldNotBeEmpty)
			So(result.TokenType, ShouldEqual, "Bearer")
			So(result.User.ID, ShouldEqual, userID)

			claims, err := svc.JWT().ValidateToken(result.AccessToken)
			So(err, ShouldBeNil)
			So(claims.UserID, ShouldEqual, userID)
			So(claims.Policies, ShouldContain, auth.PolicyCourseRead)

			stored := tokens.byValue(result.RefreshToken)
			So(stored, ShouldNotBeNil)
			So(stored.UserID, ShouldEqual, userID)
			So(stored.IsRevoked, ShouldBeFalse)
			So(stored.IPAddress, ShouldEqual, "203.0.113.9")
			So(stored.UserAgent, ShouldEqual, "test-agent")
		})

		Convey("密码错误返回ErrInvalidCredentials", func() {
			_, err := svc.Login(ctx, testEmail, "wrong", "", "")
			So(err, ShouldEqual, ErrInvalidCredentials)
		})

		Convey("邮箱不存在返回同一个ErrInvalidCredentials", func() {
			_, err := svc.Login(ctx, "nobody@example.com", testPwd, "", "")
			So(err, ShouldEqual, ErrInvalidCredentials)
		})
	})
}

func TestAuthService_Refresh(t *testing.T) {
	Convey("AuthService.Refresh 轮换刷新", t, func() {
		ctx := context.Background()
		svc, users, tokens := newTestService()
		userID := mustRegister(svc)

		login, err := svc.Login(ctx, testEmail, testPwd, "203.0.113.9", "agent-1")
		So(err, ShouldBeNil)

		Convey("刷新成功：旧Token被撤销，新Token可用", func() {
			pair, err := svc.Refresh(ctx, login.RefreshToken, "203.0.113.10", "agent-2")
			So(err, ShouldBeNil)
			So(pair.RefreshToken, ShouldNotEqual, login.RefreshToken)
			So(pair.TokenType, ShouldEqual, "Bearer")

			old := tokens.byValue(login.RefreshToken)
			So(old.IsRevoked, ShouldBeTrue)
			So(old.RevokedReason, ShouldEqual, ReasonReplaced)
			So(old.RevokedAt, ShouldNotBeNil)
			So(old.LastUsedAt, ShouldNotBeNil)

			fresh := tokens.byValue(pair.RefreshToken)
			So(fresh, ShouldNotBeNil)
			So(fresh.UserID, ShouldEqual, userID)
			So(fresh.IsRevoked, ShouldBeFalse)
			So(fresh.IPAddress, ShouldEqual, "203.0.113.10")
			So(fresh.UserAgent, ShouldEqual, "agent-2")

			Convey("旧Token再次刷新失败（防重放）", func() {
				_, err := svc.Refresh(ctx, login.RefreshToken, "", "")
				So(err, ShouldEqual, ErrInvalidOrExpiredToken)
			})

			Convey("新Token可以继续刷新", func() {
				next, err := svc.Refresh(ctx, pair.RefreshToken, "", "")
				So(err, ShouldBeNil)
				So(next.RefreshToken, ShouldNotEqual, pair.RefreshToken)
			})
		})

		Convey("不存在的Token返回ErrInvalidOrExpiredToken", func() {
			_, err := svc.Refresh(ctx, "no-such-token", "", "")
			So(err, ShouldEqual, ErrInvalidOrExpiredToken)
		})

		Convey("已过期的Token返回同一错误，且留下使用痕迹", func() {
			stored := tokens.byValue(login.RefreshToken)
			stored.ExpiresAt = time.Now().Add(-time.Minute)
			tokens.put(stored)

			_, err := svc.Refresh(ctx, login.RefreshToken, "", "")
			So(err, ShouldEqual, ErrInvalidOrExpiredToken)
		})

		Convey("属主已删除返回同一错误", func() {
			users.delete(userID)
			_, err := svc.Refresh(ctx, login.RefreshToken, "", "")
			So(err, ShouldEqual, ErrInvalidOrExpiredToken)
		})

		Convey("刷新时重新解析策略，角色变更即刻生效", func() {
			user, _ := users.FindByID(ctx, userID)
			user.Roles = []string{auth.RoleAdmin}

			pair, err := svc.Refresh(ctx, login.RefreshToken, "", "")
			So(err, ShouldBeNil)

			claims, err := svc.JWT().ValidateToken(pair.AccessToken)
			So(err, ShouldBeNil)
			So(claims.Policies, ShouldContain, auth.PolicyCourseDelete)
		})

		Convey("新Token落库失败：返回ErrPartialCommit，旧Token保持撤销", func() {
			tokens.failNext = errors.New("write concern error")

			_, err := svc.Refresh(ctx, login.RefreshToken, "", "")
			So(errors.Is(err, ErrPartialCommit), ShouldBeTrue)

			old := tokens.byValue(login.RefreshToken)
			So(old.IsRevoked, ShouldBeTrue)

			Convey("随后的重试只能重新登录", func() {
				_, err := svc.Refresh(ctx, login.RefreshToken, "", "")
				So(err, ShouldEqual, ErrInvalidOrExpiredToken)
			})
		})

		Convey("Token值碰撞时重新生成后插入成功", func() {
			tokens.failNext = authRepo.ErrDuplicateToken

			pair, err := svc.Refresh(ctx, login.RefreshToken, "", "")
			So(err, ShouldBeNil)
			So(tokens.byValue(pair.RefreshToken), ShouldNotBeNil)
		})

		Convey("并发刷新同一Token只有一方胜出", func() {
			const workers = 8

			var wg sync.WaitGroup
			results := make([]error, workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()
					_, results[idx] = svc.Refresh(ctx, login.RefreshToken, "", "")
				}(i)
			}
			wg.Wait()

			winners := 0
			for _, err := range results {
				if err == nil {
					winners++
				} else {
					So(err, ShouldEqual, ErrInvalidOrExpiredToken)
				}
			}
			So(winners, ShouldEqual, 1)
		})
	})
}

func TestAuthService_RevokeToken(t *testing.T) {
	Convey("AuthService.RevokeToken 单Token撤销", t, func() {
		ctx := context.Background()
		svc, _, tokens := newTestService()
		mustRegister(svc)

		login, err := svc.Login(ctx, testEmail, testPwd, "", "")
		So(err, ShouldBeNil)

		Convey("撤销成功，原因带上来源IP", func() {
			revoked, err := svc.RevokeToken(ctx, login.RefreshToken, "203.0.113.9", "")
			So(err, ShouldBeNil)
			So(revoked, ShouldBeTrue)

			stored := tokens.byValue(login.RefreshToken)
			So(stored.IsRevoked, ShouldBeTrue)
			So(stored.RevokedReason, ShouldEqual, "manual revocation (from 203.0.113.9)")

			Convey("被撤销的Token无法再刷新", func() {
				_, err := svc.Refresh(ctx, login.RefreshToken, "", "")
				So(err, ShouldEqual, ErrInvalidOrExpiredToken)
			})

			Convey("重复撤销返回false且不覆盖原因", func() {
				revoked, err := svc.RevokeToken(ctx, login.RefreshToken, "", "another reason")
				So(err, ShouldBeNil)
				So(revoked, ShouldBeFalse)

				stored := tokens.byValue(login.RefreshToken)
				So(stored.RevokedReason, ShouldEqual, "manual revocation (from 203.0.113.9)")
			})
		})

		Convey("自定义原因被保留", func() {
			revoked, err := svc.RevokeToken(ctx, login.RefreshToken, "", "suspected theft")
			So(err, ShouldBeNil)
			So(revoked, ShouldBeTrue)
			So(tokens.byValue(login.RefreshToken).RevokedReason, ShouldEqual, "suspected theft")
		})

		Convey("不存在的Token返回false而非错误", func() {
			revoked, err := svc.RevokeToken(ctx, "no-such-token", "", "")
			So(err, ShouldBeNil)
			So(revoked, ShouldBeFalse)
		})
	})
}

func TestAuthService_RevokeAllTokens(t *testing.T) {
	Convey("AuthService.RevokeAllTokens 全量撤销", t, func() {
		ctx := context.Background()
		svc, _, tokens := newTestService()
		userID := mustRegister(svc)

		Convey("撤销全部可用Token，已撤销记录不受影响", func() {
			first, err := svc.Login(ctx, testEmail, testPwd, "", "device-1")
			So(err, ShouldBeNil)
			second, err := svc.Login(ctx, testEmail, testPwd, "", "device-2")
			So(err, ShouldBeNil)
			third, err := svc.Login(ctx, testEmail, testPwd, "", "device-3")
			So(err, ShouldBeNil)

			// 其中一个先被单独撤销
			_, err = svc.RevokeToken(ctx, third.RefreshToken, "", "suspected theft")
			So(err, ShouldBeNil)

			revoked, err := svc.RevokeAllTokens(ctx, userID, "")
			So(err, ShouldBeNil)
			So(revoked, ShouldBeTrue)

			So(tokens.byValue(first.RefreshToken).RevokedReason, ShouldEqual, ReasonLogoutAll)
			So(tokens.byValue(second.RefreshToken).RevokedReason, ShouldEqual, ReasonLogoutAll)
			// 先前的撤销原因不被覆盖
			So(tokens.byValue(third.RefreshToken).RevokedReason, ShouldEqual, "suspected theft")

			Convey("所有Token都无法再刷新", func() {
				for _, tok := range []string{first.RefreshToken, second.RefreshToken, third.RefreshToken} {
					_, err := svc.Refresh(ctx, tok, "", "")
					So(err, ShouldEqual, ErrInvalidOrExpiredToken)
				}
			})
		})

		Convey("没有可用Token时返回false", func() {
			revoked, err := svc.RevokeAllTokens(ctx, userID, "")
			So(err, ShouldBeNil)
			So(revoked, ShouldBeFalse)
		})
	})
}
