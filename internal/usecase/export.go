package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"rocketchat-slack-export/internal/core/services"
	"rocketchat-slack-export/internal/domain"
	"rocketchat-slack-export/internal/ports"
)

// ExportUseCase инкапсулирует бизнес-логику полного экспорта:
// четыре фазы строго последовательно, без перекрытия записи между фазами.
type ExportUseCase struct {
	store      ports.DocumentStore
	identity   *services.IdentityService
	normalizer *services.NormalizeService
	extractor  ports.ContentExtractor
	workspace  ports.WorkspaceWriter
	csvWriter  ports.MessageCSVExporter
	jsonWriter ports.MessageJSONExporter
}

// NewExportUseCase создает новый экземпляр ExportUseCase.
func NewExportUseCase(
	store ports.DocumentStore,
	identity *services.IdentityService,
	normalizer *services.NormalizeService,
	extractor ports.ContentExtractor,
	workspace ports.WorkspaceWriter,
	csvWriter ports.MessageCSVExporter,
	jsonWriter ports.MessageJSONExporter,
) *ExportUseCase {
	return &ExportUseCase{
		store:      store,
		identity:   identity,
		normalizer: normalizer,
		extractor:  extractor,
		workspace:  workspace,
		csvWriter:  csvWriter,
		jsonWriter: jsonWriter,
	}
}

// Run выполняет экспорт: пользователи, комнаты, CSV-сообщения, JSON-сообщения.
// Любая ошибка ввода-вывода фатальна; уже записанные файлы остаются как есть.
func (uc *ExportUseCase) Run(ctx context.Context) (*domain.ExportStats, error) {
	runID := uuid.NewString()

	if err := uc.logSourceCounts(ctx, runID); err != nil {
		return nil, err
	}

	stats := &domain.ExportStats{}

	// Фаза 1: пользователи.
	slog.Info("Фаза 1: экспорт пользователей", "run_id", runID)

	users, err := uc.store.UsersByUsername(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить пользователей: %w", err)
	}

	// Единственный снимок питает и синтетические ID, и таблицы соответствия.
	tables := uc.identity.BuildUserTables(users)

	targetUsers := make([]domain.TargetUser, 0, len(users))
	for i, u := range users {
		targetUsers = append(targetUsers, uc.normalizer.NormalizeUser(u, services.SlackUserID(i+1)))
	}

	if err := uc.workspace.WriteUsers(targetUsers); err != nil {
		return nil, fmt.Errorf("не удалось записать users.json: %w", err)
	}
	stats.Users = len(targetUsers)
	slog.Info("Пользователи экспортированы", "run_id", runID, "count", stats.Users)

	// Фаза 2: комнаты по категориям.
	slog.Info("Фаза 2: экспорт комнат и каналов", "run_id", runID)

	rooms, err := uc.store.Rooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить комнаты: %w", err)
	}

	tables.ChannelByRoom = uc.identity.BuildRoomMap(rooms)

	byFile := make(map[string][]domain.TargetRoom)
	for _, r := range rooms {
		switch r.Kind {
		case domain.RoomPublicChannel:
			byFile[domain.ChannelsFile] = append(byFile[domain.ChannelsFile], uc.normalizer.NormalizeRoom(r, false))
			stats.PublicChannels++
		case domain.RoomPrivateGroup:
			byFile[domain.GroupsFile] = append(byFile[domain.GroupsFile], uc.normalizer.NormalizeRoom(r, true))
			stats.PrivateGroups++
		case domain.RoomDirectMessage:
			byFile[domain.DMsFile] = append(byFile[domain.DMsFile], uc.normalizer.NormalizeRoom(r, true))
			stats.DirectRooms++
		case domain.RoomMultiParty:
			byFile[domain.MPIMsFile] = append(byFile[domain.MPIMsFile], uc.normalizer.NormalizeRoom(r, true))
			stats.MultiPartyDMs++
		default:
			slog.Debug("Пропущена комната неизвестного типа", "run_id", runID, "room_id", r.ID, "kind", r.Kind)
		}
	}

	if err := uc.workspace.WriteRooms(byFile); err != nil {
		return nil, fmt.Errorf("не удалось записать файлы комнат: %w", err)
	}
	slog.Info("Комнаты экспортированы", "run_id", runID,
		"public", stats.PublicChannels,
		"private", stats.PrivateGroups,
		"dm", stats.DirectRooms,
		"group_dm", stats.MultiPartyDMs,
	)

	// Фаза 3: сообщения в CSV по каналам.
	slog.Info("Фаза 3: экспорт сообщений в CSV", "run_id", runID)

	rows, csvFiles, err := uc.csvWriter.Export(ctx, uc.store, tables, uc.extractor)
	if err != nil {
		return nil, fmt.Errorf("не удалось экспортировать сообщения в CSV: %w", err)
	}
	stats.CSVRows = rows
	stats.CSVFiles = csvFiles

	slog.Info("CSV-файлы записаны", "run_id", runID, "rows", rows, "files", len(csvFiles))
	for _, path := range csvFiles {
		slog.Info("Создан CSV-файл", "run_id", runID, "path", path)
	}

	// Фаза 4: сообщения в JSON постранично.
	slog.Info("Фаза 4: экспорт сообщений в JSON", "run_id", runID)

	written, jsonFiles, err := uc.jsonWriter.Export(ctx, uc.store, tables, uc.extractor)
	if err != nil {
		return nil, fmt.Errorf("не удалось экспортировать сообщения в JSON: %w", err)
	}
	stats.JSONMessages = written
	stats.JSONFiles = jsonFiles

	slog.Info("Экспорт успешно завершен", "run_id", runID,
		"json_messages", written,
		"json_files", jsonFiles,
	)

	return stats, nil
}

// logSourceCounts выводит диагностику хранилища до начала экспорта.
func (uc *ExportUseCase) logSourceCounts(ctx context.Context, runID string) error {
	userCount, err := uc.store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("не удалось посчитать пользователей: %w", err)
	}
	roomCount, err := uc.store.CountRooms(ctx)
	if err != nil {
		return fmt.Errorf("не удалось посчитать комнаты: %w", err)
	}
	messageCount, err := uc.store.CountMessages(ctx)
	if err != nil {
		return fmt.Errorf("не удалось посчитать сообщения: %w", err)
	}

	slog.Info("Хранилище источника",
		"run_id", runID,
		"users", userCount,
		"rooms", roomCount,
		"messages", messageCount,
	)
	return nil
}
