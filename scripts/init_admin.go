package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"mentora/internal/config"
	"mentora/internal/model/auth"
	"mentora/internal/pkg/id"
	"mentora/internal/pkg/logger"
	"mentora/internal/pkg/mongodb"
	"mentora/internal/pkg/password"
	authrepo "mentora/internal/repository/auth"
)

func main() {
	// 1. 加载配置（与 cmd/root.go 保持一致的搜索路径）
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.mentora")

	viper.SetEnvPrefix("MENTORA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
		os.Exit(1)
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	// 2. 连接 MongoDB
	client, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	db := client.Database()
	ctx := context.Background()

	// 3. 初始化内置角色与用户仓库
	roleRepo := authrepo.NewRoleRepo(db)
	if err := roleRepo.EnsureDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure default roles")
	}
	userRepo := authrepo.NewUserRepo(db)

	// 4. 读取环境变量或使用默认值
	username := os.Getenv("INIT_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	passwordPlain := os.Getenv("INIT_ADMIN_PASSWORD")
	if passwordPlain == "" {
		passwordPlain = "admin123"
	}
	email := os.Getenv("INIT_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}

	// 5. 不存在则创建，已存在则升级为ADMIN角色
	user, err := userRepo.FindByUsername(ctx, username)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to query user")
	}
	if user == nil {
		log.Info().Str("username", username).Msg("admin user not found, will create")
		if err := createAdmin(ctx, userRepo, username, email, passwordPlain); err != nil {
			log.Fatal().Err(err).Msg("create admin user failed")
		}
	} else {
		log.Info().Str("username", username).Msg("admin user exists, will update roles")
		if err := userRepo.SetRoles(ctx, user.ID, []string{auth.RoleAdmin}); err != nil {
			log.Fatal().Err(err).Msg("update admin user failed")
		}
	}

	fmt.Printf("Admin initialized: username=%s password=%s roles=ADMIN\n",
		username, passwordPlain)
}

func createAdmin(ctx context.Context, repo *authrepo.UserRepo, username, email, pwd string) error {
	hashed, err := password.Hash(pwd)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &auth.User{
		ID:       id.New(),
		Username: username,
		Email:    email,
		Password: hashed,
		FullName: "管理员",
		Roles:    []string{auth.RoleAdmin},
	}

	return repo.Create(ctx, user)
}
