package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "mentora/docs"
	"mentora/internal/config"
	"mentora/internal/handler"
	authHandler "mentora/internal/handler/auth"
	catalogHandler "mentora/internal/handler/catalog"
	authModel "mentora/internal/model/auth"
	"mentora/internal/pkg/cache"
	"mentora/internal/pkg/mongodb"
	"mentora/internal/pkg/storage"
	"mentora/internal/pkg/storagefactory"
	authRepo "mentora/internal/repository/auth"
	catalogRepo "mentora/internal/repository/catalog"
	"mentora/internal/server/middleware"
	"mentora/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache

	authSvc    *service.AuthService
	catalogSvc *service.CatalogService
}

// New 创建服务器实例
// MongoDB是必需依赖（凭证与课程数据都在其中）；Redis和对象存储可选，未配置时对应能力降级
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 初始化 MongoDB
	mongoClient, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	// 创建索引
	if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	// 初始化内置角色
	roleRepo := authRepo.NewRoleRepo(mongoClient.Database())
	if err := roleRepo.EnsureDefaults(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure default roles: %w", err)
	}

	// 初始化 Redis (可选)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// 初始化对象存储 (可选)
	var store storage.Storage
	if cfg.Storage.Type != "" {
		st, err := storagefactory.NewStorage(&cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize storage, continuing without it")
		} else {
			store = st
			log.Info().Str("type", st.GetStorageType()).Msg("initialized storage")
		}
	}

	// 认证服务
	userRepo := authRepo.NewUserRepo(mongoClient.Database())
	refreshTokenRepo := authRepo.NewRefreshTokenRepo(mongoClient.Database())
	claimsResolver := service.NewRoleClaimsResolver(roleRepo)
	authSvc := service.NewAuthService(
		userRepo,
		refreshTokenRepo,
		claimsResolver,
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)

	// 课程目录服务
	catalogSvc := service.NewCatalogService(
		catalogRepo.NewCourseRepo(mongoClient.Database()),
		catalogRepo.NewInstructorRepo(mongoClient.Database()),
		catalogRepo.NewPriceRepo(mongoClient.Database()),
		catalogRepo.NewRatingRepo(mongoClient.Database()),
		redisCache,
		store,
	)

	srv := &Server{
		cfg:        cfg,
		engine:     engine,
		mongo:      mongoClient,
		redis:      redisCache,
		authSvc:    authSvc,
		catalogSvc: catalogSvc,
	}

	// 设置路由
	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authHdl := authHandler.NewHandler(s.authSvc)
	catalogHdl := catalogHandler.NewHandler(s.catalogSvc)
	authRequired := middleware.Auth(s.authSvc.JWT())

	// API v1
	v1 := s.engine.Group("/api/v1")
	{
		// 认证接口（公开）
		v1.POST("/auth/register", authHdl.Register)
		v1.POST("/auth/login", authHdl.Login)
		v1.POST("/auth/refresh", authHdl.Refresh)
		v1.POST("/auth/revoke", authHdl.Revoke)

		// 需要认证的认证接口
		auth := v1.Group("", authRequired)
		{
			auth.POST("/auth/revoke-all", authHdl.RevokeAll)
			auth.GET("/auth/me", authHdl.Me)
		}

		// 课程目录接口（需要认证 + 策略授权）
		courses := v1.Group("/courses", authRequired)
		{
			courses.GET("", middleware.RequirePolicy(authModel.PolicyCourseRead), catalogHdl.ListCourses)
			courses.GET("/:id", middleware.RequirePolicy(authModel.PolicyCourseRead), catalogHdl.GetCourse)
			courses.POST("", middleware.RequirePolicy(authModel.PolicyCourseWrite), catalogHdl.CreateCourse)
			courses.PUT("/:id", middleware.RequirePolicy(authModel.PolicyCourseUpdate), catalogHdl.UpdateCourse)
			courses.DELETE("/:id", middleware.RequirePolicy(authModel.PolicyCourseDelete), catalogHdl.DeleteCourse)
			courses.POST("/:id/instructors", middleware.RequirePolicy(authModel.PolicyCourseUpdate), catalogHdl.AssignInstructor)
			courses.POST("/:id/prices", middleware.RequirePolicy(authModel.PolicyCourseUpdate), catalogHdl.AssignPrice)
			courses.POST("/:id/photos", middleware.RequirePolicy(authModel.PolicyCourseUpdate), catalogHdl.UploadPhoto)
			courses.GET("/:id/ratings", middleware.RequirePolicy(authModel.PolicyCommentRead), catalogHdl.ListRatings)
			courses.POST("/:id/ratings", middleware.RequirePolicy(authModel.PolicyCommentCreate), catalogHdl.CreateRating)
		}

		instructors := v1.Group("/instructors", authRequired)
		{
			instructors.GET("", middleware.RequirePolicy(authModel.PolicyInstructorRead), catalogHdl.ListInstructors)
			instructors.POST("", middleware.RequirePolicy(authModel.PolicyInstructorCreate), catalogHdl.CreateInstructor)
		}

		prices := v1.Group("/prices", authRequired)
		{
			prices.GET("", middleware.RequirePolicy(authModel.PolicyCourseRead), catalogHdl.ListPrices)
			prices.POST("", middleware.RequirePolicy(authModel.PolicyCourseWrite), catalogHdl.CreatePrice)
		}
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		// 关闭连接
		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
