package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"rocketchat-slack-export/internal/domain"
)

// Слаг: строчные буквы, недопустимые символы заменяются на "-",
// длина ограничена 80 символами.
const maxSlugLength = 80

var slugDisallowed = regexp.MustCompile(`[^a-z0-9_-]`)

// Slugify преобразует произвольное имя в безопасное имя канала Slack.
func Slugify(name string) string {
	s := slugDisallowed.ReplaceAllString(strings.ToLower(name), "-")
	// После замены строка состоит только из ASCII, срез по байтам безопасен.
	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
	}
	return s
}

// RoomDisplayName возвращает отображаемое имя комнаты до слагификации.
// Для личных сообщений без имени используются отсортированные usernames,
// иначе запасное имя dm-<id>.
func RoomDisplayName(room domain.SourceRoom) string {
	if room.Name != "" {
		return room.Name
	}
	if len(room.Usernames) > 0 {
		names := make([]string, len(room.Usernames))
		copy(names, room.Usernames)
		sort.Strings(names)
		return strings.Join(names, "-")
	}
	return "dm-" + room.ID
}

// ChannelSlug возвращает слаг канала для комнаты. Та же функция питает
// карту комнат и экспорт комнат, поэтому имена CSV-файлов и записи
// в файлах категорий всегда совпадают.
func ChannelSlug(room domain.SourceRoom) string {
	return Slugify(RoomDisplayName(room))
}

// IdentityService строит синтетические идентификаторы и таблицы соответствия.
type IdentityService struct{}

// NewIdentityService создает новый экземпляр IdentityService.
func NewIdentityService() *IdentityService {
	return &IdentityService{}
}

// SlackUserID возвращает синтетический ID для порядкового номера (с единицы).
func SlackUserID(index int) string {
	return fmt.Sprintf("U%07d", index)
}

// BuildUserTables строит таблицы пользователей из единственного снимка,
// отсортированного по username. Один и тот же срез питает и последовательность
// ID, и таблицы, поэтому индексы не могут разойтись между проходами.
func (s *IdentityService) BuildUserTables(users []domain.SourceUser) domain.LookupTables {
	tables := domain.LookupTables{
		SlackIDByUser:  make(map[string]string, len(users)),
		UsernameByUser: make(map[string]string, len(users)),
		EmailByUser:    make(map[string]string),
	}

	for i, u := range users {
		tables.SlackIDByUser[u.ID] = SlackUserID(i + 1)
		tables.UsernameByUser[u.ID] = u.Username
		if email, ok := u.PrimaryEmail(); ok {
			tables.EmailByUser[u.ID] = email
		}
	}

	return tables
}

// BuildRoomMap строит отображение ID комнаты в слаг канала.
func (s *IdentityService) BuildRoomMap(rooms []domain.SourceRoom) map[string]string {
	roomMap := make(map[string]string, len(rooms))
	for _, r := range rooms {
		roomMap[r.ID] = ChannelSlug(r)
	}
	return roomMap
}
