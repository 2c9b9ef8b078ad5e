package exporter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rocketchat-slack-export/internal/adapters/source"
	"rocketchat-slack-export/internal/core/services"
	"rocketchat-slack-export/internal/domain"
)

func TestEscapeCSV(t *testing.T) {
	t.Run("удваивает кавычки", func(t *testing.T) {
		assert.Equal(t, `hi ""there""`, EscapeCSV(`hi "there"`))
	})

	t.Run("остальные символы не меняются", func(t *testing.T) {
		assert.Equal(t, "a\\b\nc", EscapeCSV("a\\b\nc"))
	})
}

func TestSplitParts(t *testing.T) {
	t.Run("короткий текст остается одной частью без префикса", func(t *testing.T) {
		parts := SplitParts("hello", 10)
		assert.Equal(t, []string{"hello"}, parts)
	})

	t.Run("пустой текст дает одну пустую часть", func(t *testing.T) {
		assert.Equal(t, []string{""}, SplitParts("", 10))
	})

	t.Run("длинный текст разбивается на нумерованные части", func(t *testing.T) {
		text := strings.Repeat("a", 25)
		parts := SplitParts(text, 10)

		require.Len(t, parts, 3)
		assert.True(t, strings.HasPrefix(parts[0], "[Part 1/3] "))
		assert.True(t, strings.HasPrefix(parts[1], "[Part 2/3] "))
		assert.True(t, strings.HasPrefix(parts[2], "[Part 3/3] "))
	})

	t.Run("сегменты не превышают порог и собираются обратно", func(t *testing.T) {
		text := strings.Repeat("abc", 40) // 120 символов
		threshold := 50
		parts := SplitParts(text, threshold)

		require.Len(t, parts, 3)

		var rebuilt strings.Builder
		for i, part := range parts {
			prefix := "[Part " + string(rune('1'+i)) + "/3] "
			require.True(t, strings.HasPrefix(part, prefix))
			segment := strings.TrimPrefix(part, prefix)
			assert.LessOrEqual(t, len([]rune(segment)), threshold)
			rebuilt.WriteString(segment)
		}
		assert.Equal(t, text, rebuilt.String())
	})

	t.Run("разбиение считает символы, а не байты", func(t *testing.T) {
		text := strings.Repeat("я", 15)
		parts := SplitParts(text, 10)

		require.Len(t, parts, 2)
		segment := strings.TrimPrefix(parts[0], "[Part 1/2] ")
		assert.Equal(t, strings.Repeat("я", 10), segment)
	})
}

func csvFixtureStore(ts time.Time) *source.MemoryStore {
	later := ts.Add(time.Minute)

	users := []domain.SourceUser{
		{ID: "u1", Username: "bob"},
	}
	rooms := []domain.SourceRoom{
		{ID: "r1", Kind: domain.RoomPublicChannel, Name: "General", CreatedAt: ts},
	}
	messages := []domain.SourceMessage{
		// Нарочно в обратном хронологическом порядке.
		{ID: "m2", RoomID: "r1", Author: &domain.Author{ID: "u1"}, Timestamp: &later, Text: "second"},
		{ID: "m1", RoomID: "r1", Author: &domain.Author{ID: "u1"}, Timestamp: &ts, Text: `hi "there"`},
		// Неполное сообщение: нет автора.
		{ID: "m3", RoomID: "r1", Timestamp: &ts, Text: "dropped"},
	}

	return source.NewMemoryStore(users, rooms, messages)
}

func csvTables() domain.LookupTables {
	return domain.LookupTables{
		SlackIDByUser:  map[string]string{"u1": "U0000001"},
		UsernameByUser: map[string]string{"u1": "bob"},
		EmailByUser:    map[string]string{},
		ChannelByRoom:  map[string]string{"r1": "general"},
	}
}

func TestCSVWriterExport(t *testing.T) {
	ctx := context.Background()
	extractor := services.NewContentService()

	t.Run("записывает заголовок и строки в хронологическом порядке", func(t *testing.T) {
		dir := t.TempDir()
		ts := time.Unix(1700000000, 0).UTC()
		w := NewCSVWriter(filepath.Join(dir, "messages_export.csv"), 4000)

		rows, files, err := w.Export(ctx, csvFixtureStore(ts), csvTables(), extractor)
		require.NoError(t, err)
		assert.Equal(t, 2, rows)
		require.Len(t, files, 1)
		assert.Equal(t, filepath.Join(dir, "messages_export_general.csv"), files[0])

		data, err := os.ReadFile(files[0])
		require.NoError(t, err)

		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "timestamp,channel,username,text", lines[0])
		assert.Equal(t, `1700000000,general,bob,"hi ""there"""`, lines[1])
		assert.Equal(t, "1700000060,general,bob,second", lines[2])
	})

	t.Run("неразрешенные ссылки получают запасные идентификаторы", func(t *testing.T) {
		dir := t.TempDir()
		ts := time.Unix(1700000000, 0).UTC()
		store := source.NewMemoryStore(nil, nil, []domain.SourceMessage{
			{ID: "m1", RoomID: "rX", Author: &domain.Author{ID: "uX"}, Timestamp: &ts, Text: "hi"},
		})
		w := NewCSVWriter(filepath.Join(dir, "messages.csv"), 4000)

		tables := domain.LookupTables{
			UsernameByUser: map[string]string{},
			ChannelByRoom:  map[string]string{},
		}
		rows, files, err := w.Export(ctx, store, tables, extractor)
		require.NoError(t, err)
		assert.Equal(t, 1, rows)
		require.Len(t, files, 1)

		data, err := os.ReadFile(files[0])
		require.NoError(t, err)
		assert.Contains(t, string(data), "1700000000,unknown-rX,unknown-user,hi")
	})

	t.Run("длинное сообщение дает несколько строк и учитывается по строкам", func(t *testing.T) {
		dir := t.TempDir()
		ts := time.Unix(1700000000, 0).UTC()
		store := source.NewMemoryStore(nil, nil, []domain.SourceMessage{
			{ID: "m1", RoomID: "r1", Author: &domain.Author{ID: "u1"}, Timestamp: &ts, Text: strings.Repeat("x", 25)},
		})
		w := NewCSVWriter(filepath.Join(dir, "messages.csv"), 10)

		rows, _, err := w.Export(ctx, store, csvTables(), extractor)
		require.NoError(t, err)
		assert.Equal(t, 3, rows)

		data, err := os.ReadFile(filepath.Join(dir, "messages_general.csv"))
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, "[Part 1/3] ")
		assert.Contains(t, content, "[Part 2/3] ")
		assert.Contains(t, content, "[Part 3/3] ")
	})

	t.Run("каждый канал получает свой файл", func(t *testing.T) {
		dir := t.TempDir()
		ts := time.Unix(1700000000, 0).UTC()
		store := source.NewMemoryStore(nil, nil, []domain.SourceMessage{
			{ID: "m1", RoomID: "r1", Author: &domain.Author{ID: "u1"}, Timestamp: &ts, Text: "a"},
			{ID: "m2", RoomID: "r2", Author: &domain.Author{ID: "u1"}, Timestamp: &ts, Text: "b"},
		})
		w := NewCSVWriter(filepath.Join(dir, "messages.csv"), 4000)

		tables := csvTables()
		tables.ChannelByRoom["r2"] = "random"

		rows, files, err := w.Export(ctx, store, tables, extractor)
		require.NoError(t, err)
		assert.Equal(t, 2, rows)
		assert.Len(t, files, 2)

		_, err = os.Stat(filepath.Join(dir, "messages_general.csv"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "messages_random.csv"))
		assert.NoError(t, err)
	})

	t.Run("текст с переводом строки кавычируется в одном поле", func(t *testing.T) {
		dir := t.TempDir()
		ts := time.Unix(1700000000, 0).UTC()
		store := source.NewMemoryStore(nil, nil, []domain.SourceMessage{
			{ID: "m1", RoomID: "r1", Author: &domain.Author{ID: "u1"}, Timestamp: &ts, Text: "line1\nline2"},
		})
		w := NewCSVWriter(filepath.Join(dir, "messages.csv"), 4000)

		_, files, err := w.Export(ctx, store, csvTables(), extractor)
		require.NoError(t, err)
		require.Len(t, files, 1)

		data, err := os.ReadFile(files[0])
		require.NoError(t, err)
		assert.Contains(t, string(data), "1700000000,general,bob,\"line1\nline2\"")
	})
}
