// Package config предоставляет управление конфигурацией приложения
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Mongo содержит конфигурацию подключения к исходной базе Rocket.Chat
type Mongo struct {
	URI      string `json:"uri" yaml:"uri"`
	Database string `json:"database" yaml:"database"`
}

// Output содержит пути вывода артефактов экспорта
type Output struct {
	// WorkspaceDir - каталог для users.json и файлов категорий комнат
	WorkspaceDir string `json:"workspace_dir" yaml:"workspace_dir"`
	// CSVPath - путь с базовым именем для CSV-файлов по каналам
	CSVPath string `json:"csv_path" yaml:"csv_path"`
	// JSONDir - каталог для нумерованных JSON-файлов сообщений
	JSONDir string `json:"json_dir" yaml:"json_dir"`
}

// Export содержит параметры обработки сообщений
type Export struct {
	// CSVSplitThreshold - максимальная длина части сообщения в CSV, в символах
	CSVSplitThreshold int `json:"csv_split_threshold" yaml:"csv_split_threshold"`
	// JSONPageSize - размер страницы при постраничном JSON-экспорте
	JSONPageSize int64 `json:"json_page_size" yaml:"json_page_size"`
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// Config содержит конфигурацию приложения
type Config struct {
	Mongo   Mongo   `json:"mongo" yaml:"mongo"`
	Output  Output  `json:"output" yaml:"output"`
	Export  Export  `json:"export" yaml:"export"`
	Logging Logging `json:"logging" yaml:"logging"`
}

// LoadConfig загружает конфигурацию приложения из переменных окружения, .env файла или config.yml
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла, если он существует
	if err := godotenv.Load(); err != nil {
		// Если .env файла не существует, это нормально, мы будем полагаться на переменные окружения или config.yml
	}

	// Попытка загрузки из config.yml сначала
	cfg, err := loadFromYAML("config.yml")
	if err != nil {
		// Если загрузка YAML не удалась, используем переменные окружения
		cfg = loadFromEnv()
	}

	cfg.applyDefaults()
	return cfg, nil
}

// loadFromYAML загружает конфигурацию из YAML-файла
func loadFromYAML(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл конфигурации %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать YAML конфигурацию: %w", err)
	}

	return &cfg, nil
}

// loadFromEnv загружает конфигурацию из переменных окружения
func loadFromEnv() *Config {
	threshold, err := strconv.Atoi(getEnv("CSV_SPLIT_THRESHOLD", ""))
	if err != nil {
		threshold = 0
	}
	pageSize, err := strconv.ParseInt(getEnv("JSON_PAGE_SIZE", ""), 10, 64)
	if err != nil {
		pageSize = 0
	}

	return &Config{
		Mongo: Mongo{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DB", ""),
		},
		Output: Output{
			WorkspaceDir: getEnv("WORKSPACE_DIR", ""),
			CSVPath:      getEnv("CSV_PATH", ""),
			JSONDir:      getEnv("JSON_DIR", ""),
		},
		Export: Export{
			CSVSplitThreshold: threshold,
			JSONPageSize:      pageSize,
		},
		Logging: Logging{
			Level: getEnv("LOG_LEVEL", ""),
		},
	}
}

// applyDefaults заполняет незаданные поля значениями по умолчанию
func (c *Config) applyDefaults() {
	if c.Mongo.URI == "" {
		c.Mongo.URI = DefaultMongoURI
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = DefaultDatabase
	}
	if c.Output.WorkspaceDir == "" {
		c.Output.WorkspaceDir = DefaultWorkspaceDir
	}
	if c.Output.CSVPath == "" {
		c.Output.CSVPath = DefaultCSVPath
	}
	if c.Output.JSONDir == "" {
		c.Output.JSONDir = DefaultJSONDir
	}
	if c.Export.CSVSplitThreshold == 0 {
		c.Export.CSVSplitThreshold = DefaultCSVSplitThreshold
	}
	if c.Export.JSONPageSize == 0 {
		c.Export.JSONPageSize = DefaultJSONPageSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri не может быть пустым")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo.database не может быть пустым")
	}

	if c.Output.WorkspaceDir == "" {
		return fmt.Errorf("output.workspace_dir не может быть пустым")
	}
	if c.Output.CSVPath == "" {
		return fmt.Errorf("output.csv_path не может быть пустым")
	}
	if c.Output.JSONDir == "" {
		return fmt.Errorf("output.json_dir не может быть пустым")
	}

	if c.Export.CSVSplitThreshold <= 0 {
		return fmt.Errorf("export.csv_split_threshold должно быть положительным целым числом")
	}
	if c.Export.JSONPageSize <= 0 {
		return fmt.Errorf("export.json_page_size должно быть положительным целым числом")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level должен быть одним из: debug, info, warn, error")
	}

	return nil
}

// getEnv извлекает значение переменной окружения или возвращает значение по умолчанию, если она не установлена
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
