package ports

import (
	"context"

	"rocketchat-slack-export/internal/domain"
)

// DocumentStore определяет интерфейс чтения исходного хранилища документов.
// Все запросы только на чтение; хранилище считается неизменным на время запуска.
type DocumentStore interface {
	// CountUsers возвращает число документов в коллекции пользователей.
	CountUsers(ctx context.Context) (int64, error)
	// CountRooms возвращает число документов в коллекции комнат.
	CountRooms(ctx context.Context) (int64, error)
	// CountMessages возвращает число документов в коллекции сообщений.
	CountMessages(ctx context.Context) (int64, error)

	// UsersByUsername возвращает всех пользователей, отсортированных
	// по username по возрастанию.
	UsersByUsername(ctx context.Context) ([]domain.SourceUser, error)
	// Rooms возвращает все комнаты без сортировки.
	Rooms(ctx context.Context) ([]domain.SourceRoom, error)
	// Messages возвращает все сообщения без сортировки (полное сканирование).
	Messages(ctx context.Context) ([]domain.SourceMessage, error)
	// MessagesPage возвращает страницу сообщений, отсортированных сервером
	// по метке времени по возрастанию.
	MessagesPage(ctx context.Context, offset, limit int64) ([]domain.SourceMessage, error)
}

// ContentExtractor определяет интерфейс сборки отображаемого текста сообщения.
type ContentExtractor interface {
	// Extract собирает текст, вложения, файлы и реакции в одну строку.
	Extract(msg domain.SourceMessage) string
}

// WorkspaceWriter определяет интерфейс записи файлов пользователей и комнат.
type WorkspaceWriter interface {
	// WriteUsers записывает единый файл users.json.
	WriteUsers(users []domain.TargetUser) error
	// WriteRooms записывает файлы категорий комнат; пустые категории пропускаются.
	WriteRooms(byFile map[string][]domain.TargetRoom) error
}

// MessageCSVExporter определяет интерфейс экспорта сообщений в CSV-файлы по каналам.
type MessageCSVExporter interface {
	// Export записывает строки по каналам и возвращает число строк и созданные файлы.
	Export(ctx context.Context, store DocumentStore, tables domain.LookupTables, extractor ContentExtractor) (int, []string, error)
}

// MessageJSONExporter определяет интерфейс экспорта сообщений в нумерованные JSON-файлы.
type MessageJSONExporter interface {
	// Export записывает страницы сообщений и возвращает число сообщений и файлов.
	Export(ctx context.Context, store DocumentStore, tables domain.LookupTables, extractor ContentExtractor) (int, int, error)
}
