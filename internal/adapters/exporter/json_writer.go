package exporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"rocketchat-slack-export/internal/domain"
	"rocketchat-slack-export/internal/ports"
)

// JSONWriter экспортирует сообщения постранично в нумерованные файлы
// формата JSON Lines: по одному JSON-объекту на строку.
type JSONWriter struct {
	dir      string
	pageSize int64
}

// NewJSONWriter создает новый экземпляр JSONWriter.
func NewJSONWriter(dir string, pageSize int64) *JSONWriter {
	return &JSONWriter{dir: dir, pageSize: pageSize}
}

// Export читает сообщения страницами фиксированного размера, отсортированными
// сервером по метке времени, и записывает по одному файлу messages_<n>.json
// на страницу. Сообщение всегда целиком помещается в одну строку одного файла.
// Возвращает число записанных сообщений и число созданных файлов.
func (w *JSONWriter) Export(ctx context.Context, store ports.DocumentStore, tables domain.LookupTables, extractor ports.ContentExtractor) (int, int, error) {
	total, err := store.CountMessages(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("failed to create output dir %s: %w", w.dir, err)
	}

	written := 0
	files := 0

	for offset := int64(0); offset < total; offset += w.pageSize {
		page, err := store.MessagesPage(ctx, offset, w.pageSize)
		if err != nil {
			return written, files, fmt.Errorf("failed to fetch page at offset %d: %w", offset, err)
		}

		records := make([]domain.MessageRecord, 0, len(page))
		for _, msg := range page {
			if !msg.IsComplete() {
				continue
			}
			records = append(records, domain.MessageRecord{
				Timestamp: msg.Timestamp.Unix(),
				Channel:   tables.Channel(msg.RoomID),
				// Для JSON-пути предпочитается email, если он известен.
				Username: tables.PreferredUser(msg.Author),
				Text:     extractor.Extract(msg),
			})
		}

		pageIndex := int(offset/w.pageSize) + 1
		if err := w.writePage(pageIndex, records); err != nil {
			return written, files, err
		}

		written += len(records)
		files++
	}

	return written, files, nil
}

// writePage записывает одну страницу в файл messages_<n>.json.
func (w *JSONWriter) writePage(index int, records []domain.MessageRecord) error {
	path := filepath.Join(w.dir, fmt.Sprintf("messages_%d.json", index))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	bw := bufio.NewWriter(file)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for _, record := range records {
		// Encode сам добавляет завершающий перевод строки.
		if err := enc.Encode(record); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to write record to %s: %w", path, err)
		}
	}

	if err := bw.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	return nil
}
