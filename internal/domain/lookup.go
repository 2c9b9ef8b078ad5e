package domain

// Запасные идентификаторы для ссылок, которые не удалось разрешить.
// Такие сообщения все равно экспортируются, а не отбрасываются.
const (
	UnknownRoomPrefix = "unknown-"
	UnknownUser       = "unknown-user"
)

// LookupTables - таблицы соответствия, построенные один раз за запуск
// и неизменяемые после построения.
type LookupTables struct {
	// SlackIDByUser отображает исходный ID пользователя в синтетический ID вида U0000001.
	SlackIDByUser map[string]string
	// UsernameByUser отображает исходный ID пользователя в username.
	UsernameByUser map[string]string
	// EmailByUser отображает исходный ID пользователя в первый известный адрес.
	EmailByUser map[string]string
	// ChannelByRoom отображает исходный ID комнаты в слаг канала.
	ChannelByRoom map[string]string
}

// Channel возвращает слаг канала для комнаты или запасной идентификатор.
func (t LookupTables) Channel(roomID string) string {
	if ch, ok := t.ChannelByRoom[roomID]; ok {
		return ch
	}
	return UnknownRoomPrefix + roomID
}

// DisplayUser возвращает username автора: из таблицы, иначе из встроенной
// ссылки, иначе запасной идентификатор.
func (t LookupTables) DisplayUser(author *Author) string {
	if author == nil {
		return UnknownUser
	}
	if name, ok := t.UsernameByUser[author.ID]; ok {
		return name
	}
	if author.Username != "" {
		return author.Username
	}
	return UnknownUser
}

// PreferredUser возвращает идентификатор автора, предпочитая email, если он известен.
func (t LookupTables) PreferredUser(author *Author) string {
	if author == nil {
		return UnknownUser
	}
	if email, ok := t.EmailByUser[author.ID]; ok {
		return email
	}
	return t.DisplayUser(author)
}
