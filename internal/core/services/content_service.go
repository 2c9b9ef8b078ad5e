package services

import (
	"strings"

	"rocketchat-slack-export/internal/domain"
	"rocketchat-slack-export/internal/ports"
)

// ContentService собирает отображаемый текст сообщения из текста,
// вложений, файлов и реакций.
type ContentService struct{}

// NewContentService создает новый экземпляр ContentService.
func NewContentService() ports.ContentExtractor {
	return &ContentService{}
}

// Extract возвращает единую строку с переводами строк между частями.
// Отсутствие любого необязательного поля не является ошибкой.
func (s *ContentService) Extract(msg domain.SourceMessage) string {
	var b strings.Builder
	b.WriteString(msg.Text)

	// Упоминания уже присутствуют в тексте в виде @username,
	// дополнительная подстановка не требуется.

	for _, att := range msg.Attachments {
		switch {
		case att.Description != "":
			desc := att.Description
			for _, node := range att.DescriptionMd {
				if node.Type != "MENTION_USER" {
					continue
				}
				// Исторически подстановка заменяет @user на @user.
				// Поведение сохранено как есть, чтобы не задублировать упоминания.
				mention := "@" + node.Value.Value
				desc = strings.ReplaceAll(desc, mention, mention)
			}
			appendLine(&b, "[Attachment: "+desc+"]")
		case att.Title != "":
			appendLine(&b, "[Attachment: "+att.Title+"]")
		}
	}

	if msg.File != nil {
		appendLine(&b, "[File: "+msg.File.Name+"]")
	} else {
		for _, f := range msg.Files {
			// Миниатюры не экспортируются.
			if strings.Contains(f.Name, "thumb-") {
				continue
			}
			appendLine(&b, "[File: "+f.Name+"]")
		}
	}

	if groups := reactionGroups(msg.Reactions); len(groups) > 0 {
		appendLine(&b, "[Reactions: "+strings.Join(groups, " | ")+"]")
	}

	return b.String()
}

// appendLine добавляет строку, отделяя ее переводом строки,
// только если уже есть предыдущее содержимое.
func appendLine(b *strings.Builder, line string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(line)
}

// reactionGroups форматирует реакции в порядке их вставки.
func reactionGroups(reactions domain.ReactionList) []string {
	var groups []string
	for _, r := range reactions {
		if r.Usernames == nil {
			continue
		}
		groups = append(groups, r.Emoji+" ("+strings.Join(r.Usernames, ", ")+")")
	}
	return groups
}
