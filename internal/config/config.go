// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// encryptionKeyPattern — 64 hex-символа, то есть 256-битный ключ AES.
var encryptionKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// minJWTSecretLen — минимальная длина секрета подписи токенов.
const minJWTSecretLen = 32

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	EncryptionKey           string `yaml:"encryption_key" env:"ENCRYPTION_KEY"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"168h"`
}

// Load читает конфиг из файла и проверяет секреты.
// Сервис не должен стартовать с коротким секретом подписи или
// ключом шифрования неверного формата.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.StorageConnectionString == "" {
		return nil, fmt.Errorf("%s: storage_connection_string is required", op)
	}
	if len(cfg.JWTSecretKey) < minJWTSecretLen {
		return nil, fmt.Errorf("%s: jwt_secret_key must be at least %d characters", op, minJWTSecretLen)
	}
	if !encryptionKeyPattern.MatchString(cfg.EncryptionKey) {
		return nil, fmt.Errorf("%s: encryption_key must be a 64-character hex string", op)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига из пути в CONFIG_PATH,
// при любой ошибке процесс завершается.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// IsProd сообщает, работает ли сервис в продакшн-окружении.
// От этого зависит флаг Secure у сессионной куки.
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}
