package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"mentora/internal/model/auth"
	"mentora/internal/pkg/id"
	"mentora/internal/pkg/jwt"
	"mentora/internal/pkg/password"
	authRepo "mentora/internal/repository/auth"
)

var (
	ErrUserAlreadyExists  = errors.New("用户已存在")
	ErrEmailTaken         = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")

	// ErrInvalidOrExpiredToken 刷新失败的统一错误
	// 不存在、已过期、已撤销、属主已删除都归并为同一错误，
	// 避免向探测失窃Token的攻击者泄露Token状态
	ErrInvalidOrExpiredToken = errors.New("Token无效或已过期")

	// ErrPartialCommit 轮换第二步写入失败：旧Token已撤销而新Token未落库
	// 属于内部致命错误，调用方收到的是包装后的该错误；旧Token保持撤销（宁可强制重新登录）
	ErrPartialCommit = errors.New("token rotation partially applied")
)

// 轮换与撤销的标准原因
const (
	ReasonReplaced  = "replaced by new token"
	ReasonManual    = "manual revocation"
	ReasonLogoutAll = "logout all sessions"
)

// Token值碰撞时的重新生成次数上限
// 64字节随机值碰撞概率可忽略，重试只为兜底唯一索引冲突
const maxTokenGenerateAttempts = 3

// UserStore 用户存储依赖
type UserStore interface {
	Create(ctx context.Context, user *auth.User) error
	FindByID(ctx context.Context, id string) (*auth.User, error)
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	FindByUsername(ctx context.Context, username string) (*auth.User, error)
	UpdateLastLoginAt(ctx context.Context, id string) error
}

// RefreshTokenStore RefreshToken存储依赖
// Revoke是条件写：仅当记录尚未撤销时生效，同一Token的并发轮换以此串行化
type RefreshTokenStore interface {
	Insert(ctx context.Context, token *auth.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*auth.RefreshToken, error)
	FindActiveByUser(ctx context.Context, userID string) ([]*auth.RefreshToken, error)
	MarkUsed(ctx context.Context, id string, at time.Time) error
	Revoke(ctx context.Context, id, reason string, at time.Time) (bool, error)
}

// AuthService 认证服务
// 负责会话凭证的完整生命周期：签发、轮换、撤销
type AuthService struct {
	users         UserStore
	refreshTokens RefreshTokenStore
	claims        ClaimsResolver
	jwt           *jwt.JWT
	refreshExpiry time.Duration // Refresh Token过期时间
}

// NewAuthService 创建认证服务
func NewAuthService(
	users UserStore,
	refreshTokens RefreshTokenStore,
	claims ClaimsResolver,
	jwtSecret string,
	accessTokenExpiry time.Duration,
	refreshTokenExpiry time.Duration,
) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		claims:        claims,
		jwt:           jwt.NewJWT(jwtSecret, accessTokenExpiry),
		refreshExpiry: refreshTokenExpiry,
	}
}

// JWT 获取JWT工具（用于认证中间件）
func (s *AuthService) JWT() *jwt.JWT {
	return s.jwt
}

// RegisterResult 注册结果
type RegisterResult struct {
	UserID   string
	Username string
	Email    string
}

// Register 用户注册
// 新用户默认为CLIENT角色
func (s *AuthService) Register(ctx context.Context, username, email, pwd, fullName string) (*RegisterResult, error) {
	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	existing, err = s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := password.Hash(pwd)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &auth.User{
		ID:       id.New(),
		Username: username,
		Email:    email,
		Password: hashedPassword,
		FullName: fullName,
		Roles:    []string{auth.RoleClient},
	}

	if err := s.users.Create(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &RegisterResult{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// TokenPair 签发结果：Access Token + Refresh Token
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // Access Token过期时间
	TokenType    string
}

// LoginResult 登录结果
type LoginResult struct {
	TokenPair
	User *auth.User
}

// Login 用户登录
// ipAddress和userAgent由调用方显式传入（不依赖任何隐式请求上下文），记入审计字段
func (s *AuthService) Login(ctx context.Context, email, pwd, ipAddress, userAgent string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(pwd, user.Password) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()

	pair, _, err := s.issueTokens(ctx, user, ipAddress, userAgent, now)
	if err != nil {
		return nil, err
	}

	// 更新最后登录时间，失败不影响登录流程
	if err := s.users.UpdateLastLoginAt(ctx, user.ID); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login time")
	}

	return &LoginResult{
		TokenPair: *pair,
		User:      user,
	}, nil
}

// Refresh 轮换刷新：用旧Refresh Token换取新的Access Token和Refresh Token
//
// 旧Token单次可用：换取成功即被撤销，这是主要的防重放手段。
// 同一Token的并发刷新只有一方能通过条件撤销胜出，落败方得到ErrInvalidOrExpiredToken。
func (s *AuthService) Refresh(ctx context.Context, refreshToken, ipAddress, userAgent string) (*TokenPair, error) {
	stored, err := s.refreshTokens.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	if stored == nil || !stored.IsActive() {
		return nil, ErrInvalidOrExpiredToken
	}

	now := time.Now()

	// 记录本次使用尝试，即便后续步骤失败也留下审计痕迹
	if err := s.refreshTokens.MarkUsed(ctx, stored.ID, now); err != nil {
		log.Warn().Err(err).Str("token_id", stored.ID).Msg("failed to mark refresh token used")
	}

	// 属主已不存在时同样归并为统一错误
	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("find token owner: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidOrExpiredToken
	}

	// 策略每次刷新都重新解析，角色/权限变更在下一次刷新生效
	accessToken, expiresAt, err := s.issueAccessToken(ctx, user, now)
	if err != nil {
		return nil, err
	}

	newRecord, err := s.newRefreshRecord(user.ID, ipAddress, userAgent, now)
	if err != nil {
		return nil, err
	}

	// 先条件撤销旧Token，再插入新Token
	// 条件不满足说明另一次刷新已经胜出（或已被显式撤销），本次按无效处理
	won, err := s.refreshTokens.Revoke(ctx, stored.ID, ReasonReplaced, now)
	if err != nil {
		return nil, fmt.Errorf("revoke old refresh token: %w", err)
	}
	if !won {
		return nil, ErrInvalidOrExpiredToken
	}

	if err := s.insertWithRetry(ctx, newRecord); err != nil {
		// 旧Token已撤销而新Token未落库：记录完整上下文并保持旧Token撤销状态
		log.Error().Err(err).
			Str("user_id", user.ID).
			Str("old_token_id", stored.ID).
			Msg("refresh token rotation partially applied")
		return nil, fmt.Errorf("%w: %v", ErrPartialCommit, err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRecord.Token,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

// RevokeToken 撤销单个Refresh Token
// Token不存在或已不可用时返回false（不是错误），对外表现与普通拒绝一致
func (s *AuthService) RevokeToken(ctx context.Context, refreshToken, ipAddress, reason string) (bool, error) {
	stored, err := s.refreshTokens.FindByToken(ctx, refreshToken)
	if err != nil {
		return false, fmt.Errorf("find refresh token: %w", err)
	}
	if stored == nil || !stored.IsActive() {
		return false, nil
	}

	if reason == "" {
		reason = ReasonManual
	}
	if ipAddress != "" {
		reason = fmt.Sprintf("%s (from %s)", reason, ipAddress)
	}

	won, err := s.refreshTokens.Revoke(ctx, stored.ID, reason, time.Now())
	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}
	return won, nil
}

// RevokeAllTokens 撤销用户全部可用Token（退出所有设备）
// 只撤销查询时刻可用的记录：已撤销记录的原始撤销原因不被覆盖；
// 与撤销并发完成轮换而新生的Token不会被追溯撤销，属已知并接受的竞态
func (s *AuthService) RevokeAllTokens(ctx context.Context, userID, reason string) (bool, error) {
	tokens, err := s.refreshTokens.FindActiveByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("find active refresh tokens: %w", err)
	}
	if len(tokens) == 0 {
		return false, nil
	}

	if reason == "" {
		reason = ReasonLogoutAll
	}
	now := time.Now()

	revoked := false
	for _, token := range tokens {
		won, err := s.refreshTokens.Revoke(ctx, token.ID, reason, now)
		if err != nil {
			return revoked, fmt.Errorf("revoke refresh token %s: %w", token.ID, err)
		}
		if won {
			revoked = true
		}
	}

	return revoked, nil
}

// GetUserByID 根据ID获取用户信息
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*auth.User, error) {
	return s.users.FindByID(ctx, userID)
}

// issueTokens 为用户签发一对新凭证并持久化Refresh Token
func (s *AuthService) issueTokens(ctx context.Context, user *auth.User, ipAddress, userAgent string, now time.Time) (*TokenPair, *auth.RefreshToken, error) {
	accessToken, expiresAt, err := s.issueAccessToken(ctx, user, now)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.newRefreshRecord(user.ID, ipAddress, userAgent, now)
	if err != nil {
		return nil, nil, err
	}

	if err := s.insertWithRetry(ctx, record); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to persist refresh token")
		return nil, nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: record.Token,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, record, nil
}

// issueAccessToken 解析策略并签发Access Token
func (s *AuthService) issueAccessToken(ctx context.Context, user *auth.User, now time.Time) (string, time.Time, error) {
	policies, err := s.claims.Resolve(ctx, user)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("resolve claims: %w", err)
	}

	accessToken, err := s.jwt.GenerateToken(user.ID, user.Username, user.Email, user.FullName, policies)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to generate access token")
		return "", time.Time{}, fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, now.Add(s.jwt.GetExpiration()), nil
}

// newRefreshRecord 生成一条未持久化的Refresh Token记录
func (s *AuthService) newRefreshRecord(userID, ipAddress, userAgent string, now time.Time) (*auth.RefreshToken, error) {
	value, err := jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &auth.RefreshToken{
		ID:        id.New(),
		UserID:    userID,
		Token:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshExpiry),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}, nil
}

// insertWithRetry 插入Refresh Token，Token值碰撞时重新生成后重试
func (s *AuthService) insertWithRetry(ctx context.Context, record *auth.RefreshToken) error {
	var err error
	for attempt := 0; attempt < maxTokenGenerateAttempts; attempt++ {
		err = s.refreshTokens.Insert(ctx, record)
		if err == nil {
			return nil
		}
		if !errors.Is(err, authRepo.ErrDuplicateToken) {
			return err
		}

		log.Warn().Str("token_id", record.ID).Msg("refresh token collision, regenerating")
		value, genErr := jwt.GenerateRefreshToken()
		if genErr != nil {
			return fmt.Errorf("regenerate refresh token: %w", genErr)
		}
		record.Token = value
	}
	return err
}
