package source

import (
	"context"
	"sort"

	"rocketchat-slack-export/internal/domain"
)

// MemoryStore реализует интерфейс DocumentStore для данных в памяти.
// Используется в тестах; семантика запросов повторяет серверную.
type MemoryStore struct {
	users    []domain.SourceUser
	rooms    []domain.SourceRoom
	messages []domain.SourceMessage
}

// NewMemoryStore создает новый экземпляр MemoryStore.
func NewMemoryStore(users []domain.SourceUser, rooms []domain.SourceRoom, messages []domain.SourceMessage) *MemoryStore {
	return &MemoryStore{
		users:    users,
		rooms:    rooms,
		messages: messages,
	}
}

// CountUsers возвращает число пользователей.
func (s *MemoryStore) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

// CountRooms возвращает число комнат.
func (s *MemoryStore) CountRooms(ctx context.Context) (int64, error) {
	return int64(len(s.rooms)), nil
}

// CountMessages возвращает число сообщений.
func (s *MemoryStore) CountMessages(ctx context.Context) (int64, error) {
	return int64(len(s.messages)), nil
}

// UsersByUsername возвращает копию списка пользователей, отсортированную
// по username по возрастанию.
func (s *MemoryStore) UsersByUsername(ctx context.Context) ([]domain.SourceUser, error) {
	users := make([]domain.SourceUser, len(s.users))
	copy(users, s.users)
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

// Rooms возвращает копию списка комнат.
func (s *MemoryStore) Rooms(ctx context.Context) ([]domain.SourceRoom, error) {
	rooms := make([]domain.SourceRoom, len(s.rooms))
	copy(rooms, s.rooms)
	return rooms, nil
}

// Messages возвращает копию списка сообщений без сортировки.
func (s *MemoryStore) Messages(ctx context.Context) ([]domain.SourceMessage, error) {
	messages := make([]domain.SourceMessage, len(s.messages))
	copy(messages, s.messages)
	return messages, nil
}

// MessagesPage возвращает страницу сообщений, отсортированных по метке времени.
func (s *MemoryStore) MessagesPage(ctx context.Context, offset, limit int64) ([]domain.SourceMessage, error) {
	sorted := make([]domain.SourceMessage, len(s.messages))
	copy(sorted, s.messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortTime().Before(sorted[j].SortTime())
	})

	if offset >= int64(len(sorted)) {
		return nil, nil
	}

	end := offset + limit
	if end > int64(len(sorted)) {
		end = int64(len(sorted))
	}

	page := make([]domain.SourceMessage, end-offset)
	copy(page, sorted[offset:end])
	return page, nil
}
