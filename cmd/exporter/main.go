package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"rocketchat-slack-export/internal/adapters/exporter"
	"rocketchat-slack-export/internal/adapters/source"
	"rocketchat-slack-export/internal/core/services"
	applog "rocketchat-slack-export/internal/log"
	"rocketchat-slack-export/internal/pkg/config"
	"rocketchat-slack-export/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}
}

// run инкапсулирует всю логику инициализации и запуска экспорта.
func run() error {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		// Логгер еще не инициализирован, выводим в stderr
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Флаги командной строки; значениями по умолчанию служат
	// значения из конфигурации, поэтому флаг перекрывает файл.
	flag.StringVar(&cfg.Mongo.URI, "mongo", cfg.Mongo.URI, "MongoDB connection URI")
	flag.StringVar(&cfg.Mongo.Database, "db", cfg.Mongo.Database, "Rocket.Chat database name")
	flag.StringVar(&cfg.Output.WorkspaceDir, "out", cfg.Output.WorkspaceDir, "Output directory for Slack import JSON files")
	flag.StringVar(&cfg.Output.CSVPath, "csv", cfg.Output.CSVPath, "Output CSV path (directory and base name)")
	flag.StringVar(&cfg.Output.JSONDir, "json-dir", cfg.Output.JSONDir, "Output directory for JSON message files")
	flag.IntVar(&cfg.Export.CSVSplitThreshold, "csv-split", cfg.Export.CSVSplitThreshold, "Max message part length in CSV, characters")
	flag.Int64Var(&cfg.Export.JSONPageSize, "page-size", cfg.Export.JSONPageSize, "Messages per JSON file")
	flag.Parse()

	// 3. Инициализация логгера с маскировкой учетных данных в URI
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := applog.NewMaskedLogger(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// 4. Валидация конфигурации (после инициализации логгера)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	ctx := context.Background()

	// 5. Подключение к исходному хранилищу
	slog.Info("Подключение к хранилищу", "uri", cfg.Mongo.URI, "database", cfg.Mongo.Database)
	store, err := source.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return fmt.Errorf("failed to create document store: %w", err)
	}
	defer func() {
		if err := store.Close(ctx); err != nil {
			slog.Warn("Не удалось закрыть соединение с хранилищем", "error", err)
		}
	}()

	// 6. Сборка конвейера и запуск
	uc := usecase.NewExportUseCase(
		store,
		services.NewIdentityService(),
		services.NewNormalizeService(),
		services.NewContentService(),
		exporter.NewWorkspaceExporter(cfg.Output.WorkspaceDir),
		exporter.NewCSVWriter(cfg.Output.CSVPath, cfg.Export.CSVSplitThreshold),
		exporter.NewJSONWriter(cfg.Output.JSONDir, cfg.Export.JSONPageSize),
	)

	stats, err := uc.Run(ctx)
	if err != nil {
		return err
	}

	slog.Info("Итоги экспорта",
		"users", stats.Users,
		"public_channels", stats.PublicChannels,
		"private_groups", stats.PrivateGroups,
		"dms", stats.DirectRooms,
		"group_dms", stats.MultiPartyDMs,
		"csv_rows", stats.CSVRows,
		"csv_files", len(stats.CSVFiles),
		"json_messages", stats.JSONMessages,
		"json_files", stats.JSONFiles,
	)

	return nil
}
