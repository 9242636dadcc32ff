package config

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config 结构体用于存储应用程序的配置信息
type Config struct {
	Port            int    `validate:"required,min=1,max=65535"`
	StoreBackend    string `validate:"required,oneof=postgres mysql mongo"`
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBAdminName     string
	DBBootstrap     bool
	DBSeed          bool
	MongoURI        string
	MongoCollection string
	PublicDir       string `validate:"required"`
	FrontendURL     string
	LogLevel        string
	Debug           bool // 是否开启调试模式
}

// AppConfig 是全局配置变量
var AppConfig Config

// Init 函数用于初始化配置
func Init() {
	// 加载 .env 文件
	err := godotenv.Load()
	if err != nil {
		log.Printf("警告：无法加载 .env 文件: %v", err)
	}

	// 从环境变量中读取配置
	AppConfig = Config{
		Port:            getEnvAsInt("PORT", 3000),
		StoreBackend:    getEnv("STORE_BACKEND", "postgres"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", ""),
		DBPassword:      getEnv("DB_PASSWORD", ""),
		DBName:          getEnv("DB_NAME", "socialmedia"),
		DBAdminName:     getEnv("DB_ADMIN_NAME", "postgres"),
		DBBootstrap:     getEnvAsBool("DB_BOOTSTRAP", false),
		DBSeed:          getEnvAsBool("DB_SEED", false),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoCollection: getEnv("MONGO_COLLECTION", "posts"),
		PublicDir:       getEnv("PUBLIC_DIR", "./public"),
		FrontendURL:     getEnv("FRONTEND_URL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Debug:           getEnvAsBool("DEBUG", false),
	}

	validateConfig()

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("应用程序运行在调试模式")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("应用程序运行在生产模式")
	}

	log.Printf("配置加载完成。存储后端：%s，监听端口：%d", AppConfig.StoreBackend, AppConfig.Port)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func validateConfig() {
	if err := validator.New().Struct(AppConfig); err != nil {
		log.Fatalf("错误：配置校验失败: %v", err)
	}
	// mongo 后端使用连接字符串，关系型后端需要完整的连接参数
	switch AppConfig.StoreBackend {
	case "mongo":
		if AppConfig.MongoURI == "" {
			log.Fatal("错误：MONGO_URI 未设置")
		}
	default:
		if AppConfig.DBHost == "" || AppConfig.DBPort == "" || AppConfig.DBUser == "" || AppConfig.DBName == "" {
			log.Fatal("错误：数据库配置不完整")
		}
	}
}
