package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aidka-pyramidka/post-in-a-social-media/config"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/api/post"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/middleware"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/repository/interfaces"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/repository/mongo"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/repository/mysql"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/repository/postgres"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/service"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	ctx := context.Background()

	// 按配置选择存储后端
	postRepo, cleanup := openStore(ctx)
	defer cleanup()

	postService := service.NewPostService(postRepo)
	postHandler := post.NewPostHandler(postService)

	// 设置 Gin 路由
	r := gin.Default()
	r.Use(middleware.RecoveryMiddleware())

	// 配置 CORS（页面与 API 同源时不需要，留给前端单独部署的场景）
	if config.AppConfig.FrontendURL != "" {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
		r.Use(cors.New(corsConfig))
	}

	// 静态页面从 public 目录提供
	publicDir := config.AppConfig.PublicDir
	r.StaticFile("/", filepath.Join(publicDir, "index.html"))
	r.StaticFile("/index.html", filepath.Join(publicDir, "index.html"))
	r.StaticFile("/styles.css", filepath.Join(publicDir, "styles.css"))
	r.StaticFile("/app.js", filepath.Join(publicDir, "app.js"))

	// 定义 API 路由
	r.GET("/items", postHandler.ListPosts)
	r.GET("/items/:id", postHandler.GetPost)
	r.POST("/items", postHandler.CreatePost)
	r.PUT("/items/:id", postHandler.UpdatePost)
	r.DELETE("/items/:id", postHandler.DeletePost)

	// 创建 http.Server 以支持优雅关闭
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.AppConfig.Port),
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动", zap.Int("port", config.AppConfig.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// openStore 按 STORE_BACKEND 打开对应的存储后端，
// 返回仓储实现和对应的清理函数
func openStore(ctx context.Context) (interfaces.PostRepository, func()) {
	switch config.AppConfig.StoreBackend {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.AppConfig.DBUser,
			config.AppConfig.DBPassword,
			config.AppConfig.DBHost,
			config.AppConfig.DBPort,
			config.AppConfig.DBName)

		db, err := sql.Open("mysql", dsn)
		if err != nil {
			util.Logger.Fatal("连接数据库失败", zap.Error(err))
		}
		if err := db.Ping(); err != nil {
			util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		util.Logger.Info("MySQL 连接成功")
		return mysql.NewPostRepository(db), func() { db.Close() }

	case "mongo":
		repo, err := mongo.NewPostRepository(ctx,
			config.AppConfig.MongoURI,
			config.AppConfig.DBName,
			config.AppConfig.MongoCollection)
		if err != nil {
			util.Logger.Fatal("连接 MongoDB 失败", zap.Error(err))
		}

		util.Logger.Info("MongoDB 连接成功")
		return repo, func() { repo.Close(context.Background()) }

	default: // postgres
		if config.AppConfig.DBBootstrap {
			err := postgres.Bootstrap(ctx,
				"db/postgres/schema.sql",
				"db/postgres/seed.sql",
				config.AppConfig.DBSeed)
			if err != nil {
				util.Logger.Fatal("数据库初始化失败", zap.Error(err))
			}
		}

		pool, err := postgres.NewPool(ctx)
		if err != nil {
			util.Logger.Fatal("连接数据库失败", zap.Error(err))
		}

		util.Logger.Info("Postgres 连接成功")
		return postgres.NewPostRepository(pool), pool.Close
	}
}
