package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Типы комнат Rocket.Chat (поле "t" в документе комнаты).
const (
	RoomPublicChannel = "c"
	RoomPrivateGroup  = "p"
	RoomDirectMessage = "d"
	RoomMultiParty    = "l"
)

// Имена файлов назначения для категорий комнат в формате импорта Slack.
const (
	ChannelsFile = "channels.json"
	GroupsFile   = "groups.json"
	DMsFile      = "dms.json"
	MPIMsFile    = "mpims.json"
)

// SourceUser представляет документ пользователя из коллекции users.
type SourceUser struct {
	ID       string     `bson:"_id"`
	Username string     `bson:"username"`
	Name     string     `bson:"name,omitempty"`
	Active   *bool      `bson:"active,omitempty"`
	Emails   EmailField `bson:"emails,omitempty"`
}

// IsActive возвращает значение флага active; отсутствующий флаг означает true.
func (u SourceUser) IsActive() bool {
	return u.Active == nil || *u.Active
}

// DisplayName возвращает отображаемое имя, по умолчанию username.
func (u SourceUser) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// PrimaryEmail возвращает первый найденный адрес из поля emails.
func (u SourceUser) PrimaryEmail() (string, bool) {
	return u.Emails.First()
}

// emailEntry - одна запись адреса внутри поля emails.
type emailEntry struct {
	Address string `bson:"address,omitempty"`
}

// EmailField принимает обе исторические формы поля emails:
// массив документов [{address: ...}] или индексированный документ
// {"0": {address: ...}}. Любая другая форма считается отсутствием адреса.
type EmailField struct {
	Addresses []string
}

// UnmarshalBSONValue реализует bson.ValueUnmarshaler.
// Некорректное содержимое поля не является ошибкой: адреса просто не извлекаются.
func (f *EmailField) UnmarshalBSONValue(typ byte, data []byte) error {
	f.Addresses = nil

	switch bson.Type(typ) {
	case bson.TypeArray:
		var entries []emailEntry
		if err := bson.UnmarshalValue(bson.TypeArray, data, &entries); err != nil {
			return nil
		}
		for _, e := range entries {
			if e.Address != "" {
				f.Addresses = append(f.Addresses, e.Address)
			}
		}
	case bson.TypeEmbeddedDocument:
		elements, err := bson.Raw(data).Elements()
		if err != nil {
			return nil
		}
		// Индексированный документ сохраняет порядок ключей "0", "1", ...
		for _, el := range elements {
			var entry emailEntry
			val := el.Value()
			if err := bson.UnmarshalValue(val.Type, val.Value, &entry); err != nil {
				continue
			}
			if entry.Address != "" {
				f.Addresses = append(f.Addresses, entry.Address)
			}
		}
	}

	return nil
}

// First возвращает первый адрес, если он есть.
func (f EmailField) First() (string, bool) {
	if len(f.Addresses) == 0 {
		return "", false
	}
	return f.Addresses[0], true
}

// SourceRoom представляет документ комнаты из коллекции rocketchat_room.
type SourceRoom struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"t"`
	Name      string    `bson:"name,omitempty"`
	Usernames []string  `bson:"usernames,omitempty"`
	CreatedAt time.Time `bson:"ts"`
	Archived  bool      `bson:"archived,omitempty"`
}

// Author представляет встроенную ссылку на автора сообщения.
type Author struct {
	ID       string `bson:"_id"`
	Username string `bson:"username,omitempty"`
}

// MarkupValue - значение элемента разметки descriptionMd.
type MarkupValue struct {
	Value string `bson:"value,omitempty"`
}

// MarkupNode - один элемент разметки descriptionMd вложения.
type MarkupNode struct {
	Type  string      `bson:"type"`
	Value MarkupValue `bson:"value,omitempty"`
}

// Attachment представляет вложение сообщения.
type Attachment struct {
	Description   string       `bson:"description,omitempty"`
	Title         string       `bson:"title,omitempty"`
	DescriptionMd []MarkupNode `bson:"descriptionMd,omitempty"`
}

// FileInfo представляет файл, прикрепленный к сообщению.
type FileInfo struct {
	Name string `bson:"name,omitempty"`
}

// Reaction - одна реакция: эмодзи и список имен пользователей.
type Reaction struct {
	Emoji     string
	Usernames []string
}

// ReactionList сохраняет порядок вставки реакций из BSON-документа.
// Обычная map потеряла бы порядок ключей.
type ReactionList []Reaction

// UnmarshalBSONValue реализует bson.ValueUnmarshaler.
func (r *ReactionList) UnmarshalBSONValue(typ byte, data []byte) error {
	*r = nil

	if bson.Type(typ) != bson.TypeEmbeddedDocument {
		return nil
	}

	elements, err := bson.Raw(data).Elements()
	if err != nil {
		return nil
	}

	for _, el := range elements {
		var body struct {
			Usernames []string `bson:"usernames,omitempty"`
		}
		val := el.Value()
		if err := bson.UnmarshalValue(val.Type, val.Value, &body); err != nil {
			continue
		}
		*r = append(*r, Reaction{Emoji: el.Key(), Usernames: body.Usernames})
	}

	return nil
}

// SourceMessage представляет документ сообщения из коллекции rocketchat_message.
type SourceMessage struct {
	ID          string       `bson:"_id"`
	RoomID      string       `bson:"rid,omitempty"`
	Author      *Author      `bson:"u,omitempty"`
	Timestamp   *time.Time   `bson:"ts,omitempty"`
	Text        string       `bson:"msg,omitempty"`
	Mentions    []Author     `bson:"mentions,omitempty"`
	Attachments []Attachment `bson:"attachments,omitempty"`
	File        *FileInfo    `bson:"file,omitempty"`
	Files       []FileInfo   `bson:"files,omitempty"`
	Reactions   ReactionList `bson:"reactions,omitempty"`
}

// IsComplete сообщает, содержит ли сообщение обязательные поля.
// Неполные сообщения пропускаются при экспорте и не попадают в счетчики.
func (m SourceMessage) IsComplete() bool {
	return m.RoomID != "" && m.Author != nil && m.Timestamp != nil
}

// SortTime возвращает время для клиентской сортировки.
// Сообщения без метки времени сортируются первыми (нулевое время).
func (m SourceMessage) SortTime() time.Time {
	if m.Timestamp == nil {
		return time.Time{}
	}
	return *m.Timestamp
}

// TargetProfile - профиль пользователя в формате импорта Slack.
type TargetProfile struct {
	RealName string `json:"real_name"`
	Email    string `json:"email"`
}

// TargetUser - пользователь в формате импорта Slack.
type TargetUser struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Deleted bool          `json:"deleted"`
	Profile TargetProfile `json:"profile"`
}

// TargetRoom - канал в формате импорта Slack.
type TargetRoom struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Created    int64  `json:"created"`
	IsArchived bool   `json:"is_archived"`
	IsPrivate  bool   `json:"is_private"`
}

// MessageRecord - одна экспортируемая запись сообщения.
type MessageRecord struct {
	Timestamp int64  `json:"timestamp"`
	Channel   string `json:"channel"`
	Username  string `json:"username"`
	Text      string `json:"text"`
}

// ExportStats - агрегированные счетчики одного запуска экспорта.
// Возвращается оркестратором как результат, а не хранится в глобальном состоянии.
type ExportStats struct {
	Users int

	PublicChannels int
	PrivateGroups  int
	DirectRooms    int
	MultiPartyDMs  int

	// CSVRows считает строки: сообщение, разбитое на N частей, учитывается N раз.
	CSVRows  int
	CSVFiles []string

	// JSONMessages считает сообщения: разбиения на части в JSON-пути нет.
	JSONMessages int
	JSONFiles    int
}
