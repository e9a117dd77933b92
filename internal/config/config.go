package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// DefaultPort 未配置或配置非法时使用的端口
const DefaultPort = 3000

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server := loadServerConfig()

	rateLimit, err := loadRateLimitConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Storage:   StorageConfig{BooksFile: getEnvOrDefault("BOOKS_FILE", "data.json")},
		RateLimit: rateLimit,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port int
	Addr string
}

// StorageConfig 描述持久化文件位置。
type StorageConfig struct {
	BooksFile string
}

// RateLimitConfig 描述写操作限流，RPS<=0 表示关闭。
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// loadServerConfig 解析监听端口；非法值回退到默认端口而不是报错。
func loadServerConfig() ServerConfig {
	port := DefaultPort

	if raw := strings.TrimSpace(os.Getenv("PORT")); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val < 1 || val > 65535 {
			log.Printf("warning: invalid PORT value %q, falling back to %d", raw, DefaultPort)
		} else {
			port = val
		}
	}

	return ServerConfig{Port: port, Addr: fmt.Sprintf(":%d", port)}
}

func loadRateLimitConfig() (RateLimitConfig, error) {
	cfg := RateLimitConfig{Burst: 10}

	if err := lookupEnv("RATE_LIMIT_RPS", parseFloat, &cfg.RPS); err != nil {
		return RateLimitConfig{}, err
	}
	if err := lookupEnv("RATE_LIMIT_BURST", strconv.Atoi, &cfg.Burst); err != nil {
		return RateLimitConfig{}, err
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// lookupEnv 仅在变量非空时覆盖 dst，解析失败返回带变量名的错误
func lookupEnv[T any](key string, parse func(string) (T, error), dst *T) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}

	val, err := parse(value)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	*dst = val
	return nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
