package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"rocketchat-slack-export/internal/domain"
	"rocketchat-slack-export/internal/ports"
)

// Порядок записи файлов категорий фиксирован, чтобы повторный запуск
// создавал файлы в том же порядке.
var roomFileOrder = []string{
	domain.ChannelsFile,
	domain.GroupsFile,
	domain.DMsFile,
	domain.MPIMsFile,
}

// WorkspaceExporter записывает users.json и файлы категорий комнат
// в каталог экспорта Slack.
type WorkspaceExporter struct {
	outDir string
}

// NewWorkspaceExporter создает новый экземпляр WorkspaceExporter.
func NewWorkspaceExporter(outDir string) ports.WorkspaceWriter {
	return &WorkspaceExporter{outDir: outDir}
}

// WriteUsers записывает единый файл users.json с отступами.
func (e *WorkspaceExporter) WriteUsers(users []domain.TargetUser) error {
	return e.writeJSON("users.json", users)
}

// WriteRooms записывает файлы категорий; пустые категории пропускаются.
func (e *WorkspaceExporter) WriteRooms(byFile map[string][]domain.TargetRoom) error {
	for _, filename := range roomFileOrder {
		rooms := byFile[filename]
		if len(rooms) == 0 {
			continue
		}
		if err := e.writeJSON(filename, rooms); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON создает каталог экспорта и записывает значение как JSON-массив
// с двумя пробелами отступа.
func (e *WorkspaceExporter) writeJSON(filename string, value any) error {
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir %s: %w", e.outDir, err)
	}

	path := filepath.Join(e.outDir, filename)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	return nil
}
