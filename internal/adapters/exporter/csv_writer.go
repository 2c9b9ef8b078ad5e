package exporter

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"rocketchat-slack-export/internal/domain"
	"rocketchat-slack-export/internal/ports"
)

const csvHeader = "timestamp,channel,username,text\n"

// CSVWriter экспортирует сообщения в CSV-файлы по одному на канал.
// Файл канала открывается лениво при первом сообщении и остается открытым
// до конца экспорта.
type CSVWriter struct {
	dir       string
	baseName  string
	extension string
	threshold int
}

// NewCSVWriter создает новый экземпляр CSVWriter.
// basePath задает каталог, базовое имя и расширение файлов:
// из "./out/messages.csv" получаются файлы "./out/messages_<канал>.csv".
func NewCSVWriter(basePath string, threshold int) *CSVWriter {
	ext := filepath.Ext(basePath)
	base := strings.TrimSuffix(filepath.Base(basePath), ext)

	return &CSVWriter{
		dir:       filepath.Dir(basePath),
		baseName:  base,
		extension: ext,
		threshold: threshold,
	}
}

// EscapeCSV экранирует текст для CSV, удваивая кавычки.
// Остальные символы не меняются: переводы строк сохраняет само
// кавычирование поля.
func EscapeCSV(text string) string {
	return strings.ReplaceAll(text, `"`, `""`)
}

// SplitParts разбивает экранированный текст на части не длиннее threshold
// символов. Разбиение выполняется до добавления префиксов частей, поэтому
// сегмент каждой части (без префикса) не превышает порог. Единственная
// часть возвращается без префикса.
func SplitParts(escaped string, threshold int) []string {
	runes := []rune(escaped)
	if len(runes) <= threshold {
		return []string{escaped}
	}

	total := len(runes)
	numParts := (total + threshold - 1) / threshold

	parts := make([]string, 0, numParts)
	for i := 0; i < numParts; i++ {
		start := i * threshold
		end := start + threshold
		if end > total {
			end = total
		}
		parts = append(parts, fmt.Sprintf("[Part %d/%d] %s", i+1, numParts, string(runes[start:end])))
	}

	return parts
}

// quoteEscaped заключает уже экранированное поле в кавычки,
// если оно содержит специальные символы (минимальное кавычирование).
func quoteEscaped(escaped string) string {
	if strings.ContainsAny(escaped, "\",\n\r") {
		return `"` + escaped + `"`
	}
	return escaped
}

// quoteField экранирует и при необходимости кавычирует обычное поле.
func quoteField(field string) string {
	return quoteEscaped(EscapeCSV(field))
}

// channelFile - открытый файл одного канала.
type channelFile struct {
	file *os.File
	w    *bufio.Writer
	path string
}

// Export записывает все сообщения в CSV-файлы по каналам и возвращает
// число записанных строк и пути созданных файлов. Сообщение, разбитое
// на несколько частей, дает несколько строк и учитывается в счетчике
// один раз на строку.
func (w *CSVWriter) Export(ctx context.Context, store ports.DocumentStore, tables domain.LookupTables, extractor ports.ContentExtractor) (int, []string, error) {
	messages, err := store.Messages(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	// Клиентская сортировка по метке времени; сообщения без метки
	// сортируются первыми и затем отбрасываются фильтром полноты.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SortTime().Before(messages[j].SortTime())
	})

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return 0, nil, fmt.Errorf("failed to create output dir %s: %w", w.dir, err)
	}

	channels := make(map[string]*channelFile)
	var created []string
	rows := 0

	for _, msg := range messages {
		if !msg.IsComplete() {
			continue
		}

		channel := tables.Channel(msg.RoomID)
		username := tables.DisplayUser(msg.Author)
		timestamp := strconv.FormatInt(msg.Timestamp.Unix(), 10)

		escaped := EscapeCSV(extractor.Extract(msg))
		parts := SplitParts(escaped, w.threshold)

		cf, ok := channels[channel]
		if !ok {
			cf, err = w.openChannel(channel)
			if err != nil {
				closeChannels(channels)
				return rows, created, err
			}
			channels[channel] = cf
			created = append(created, cf.path)
		}

		for _, part := range parts {
			row := timestamp + "," + quoteField(channel) + "," + quoteField(username) + "," + quoteEscaped(part) + "\n"
			if _, err := cf.w.WriteString(row); err != nil {
				closeChannels(channels)
				return rows, created, fmt.Errorf("failed to write to %s: %w", cf.path, err)
			}
			rows++
		}
	}

	if err := closeChannels(channels); err != nil {
		return rows, created, err
	}

	return rows, created, nil
}

// openChannel создает CSV-файл канала и записывает заголовок.
func (w *CSVWriter) openChannel(channel string) (*channelFile, error) {
	path := filepath.Join(w.dir, w.baseName+"_"+channel+w.extension)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	bw := bufio.NewWriter(file)
	if _, err := bw.WriteString(csvHeader); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to write header to %s: %w", path, err)
	}

	return &channelFile{file: file, w: bw, path: path}, nil
}

// closeChannels сбрасывает буферы и закрывает все файлы каналов.
// Каждый файл закрывается ровно один раз; ошибка одного файла
// не мешает закрыть остальные.
func closeChannels(channels map[string]*channelFile) error {
	var firstErr error
	for _, cf := range channels {
		if err := cf.w.Flush(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to flush %s: %w", cf.path, err)
		}
		if err := cf.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close %s: %w", cf.path, err)
		}
	}
	return firstErr
}
