// Package tests 集成测试
//
// 运行集成测试：
//
//	MONGO_URI=mongodb://localhost:27017 go test ./tests -v
//
// 说明：
//   - MONGO_URI: MongoDB 连接地址，未设置时跳过整个集成测试套件
//   - KEEP_TEST_DATA: 设置为 "true" 时，测试完成后保留数据库数据（默认: false，会自动清理）
package tests

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mentora/internal/pkg/mongodb"
	authRepo "mentora/internal/repository/auth"
	catalogRepo "mentora/internal/repository/catalog"
	"mentora/internal/service"
)

// 包级别的测试环境变量（在 TestMain 中初始化）
var (
	testCtx         context.Context
	testDB          *mongo.Database
	testMongoClient *mongo.Client
	testAuthSvc     *service.AuthService
	testCatalogSvc  *service.CatalogService
	testTokenRepo   *authRepo.RefreshTokenRepo
)

const testJWTSecret = "integration-test-secret-32-bytes!!!"

// TestMain 测试主函数，在所有测试运行前初始化和运行后清理
func TestMain(m *testing.M) {
	testCtx = context.Background()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		fmt.Fprintln(os.Stderr, "MONGO_URI 未设置，跳过集成测试")
		os.Exit(0)
	}

	var err error
	testMongoClient, err = mongo.Connect(testCtx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
	}

	// 使用测试数据库
	testDB = testMongoClient.Database("mentora_test")

	if err := mongodb.EnsureIndexes(testDB); err != nil {
		panic(fmt.Sprintf("Failed to ensure indexes: %v", err))
	}

	roleRepo := authRepo.NewRoleRepo(testDB)
	if err := roleRepo.EnsureDefaults(testCtx); err != nil {
		panic(fmt.Sprintf("Failed to ensure default roles: %v", err))
	}

	testTokenRepo = authRepo.NewRefreshTokenRepo(testDB)
	testAuthSvc = service.NewAuthService(
		authRepo.NewUserRepo(testDB),
		testTokenRepo,
		service.NewRoleClaimsResolver(roleRepo),
		testJWTSecret,
		168*time.Hour,  // 7天
		2160*time.Hour, // 90天
	)

	testCatalogSvc = service.NewCatalogService(
		catalogRepo.NewCourseRepo(testDB),
		catalogRepo.NewInstructorRepo(testDB),
		catalogRepo.NewPriceRepo(testDB),
		catalogRepo.NewRatingRepo(testDB),
		nil, // 集成测试不依赖Redis
		nil, // 不依赖对象存储
	)

	// 运行所有测试
	code := m.Run()

	// 清理资源
	if os.Getenv("KEEP_TEST_DATA") != "true" {
		_ = testDB.Collection("users").Drop(testCtx)
		_ = testDB.Collection("refresh_tokens").Drop(testCtx)
		_ = testDB.Collection("roles").Drop(testCtx)
		_ = testDB.Collection("courses").Drop(testCtx)
		_ = testDB.Collection("instructors").Drop(testCtx)
		_ = testDB.Collection("prices").Drop(testCtx)
		_ = testDB.Collection("ratings").Drop(testCtx)
	} else {
		fmt.Fprintf(os.Stderr, "保留测试数据：数据库=%s\n", testDB.Name())
	}
	_ = testMongoClient.Disconnect(testCtx)

	os.Exit(code)
}
