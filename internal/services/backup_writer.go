package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/boss-scraper/internal/events"
	"github.com/maxaizer/boss-scraper/internal/logger"
	log "github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"strings"
)

// BackupWriter saves every fetched page under the name the importer understands.
type BackupWriter struct {
	dir string
}

func NewBackupWriter(bus EventBus.Bus, dir string) (*BackupWriter, error) {

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	b := &BackupWriter{dir: dir}
	if err := bus.Subscribe(events.PageFetchedTopic, b.onPageFetched); err != nil {
		return nil, err
	}

	log.Infof("backing up fetched pages to %s", dir)
	return b, nil
}

// BackupFileName is the inverse of ParseFileName.
func BackupFileName(searchTerm string, page int) string {
	term := strings.NewReplacer("/", "-", `\`, "-", string(os.PathSeparator), "-").Replace(searchTerm)
	return fmt.Sprintf("%s_p%d.json", term, page)
}

func (b *BackupWriter) onPageFetched(event events.PageFetched) {

	path := filepath.Join(b.dir, BackupFileName(event.SearchTerm, event.Page))

	body := event.Body
	var indented bytes.Buffer
	if err := json.Indent(&indented, event.Body, "", "    "); err == nil {
		body = indented.Bytes()
	}

	if err := os.WriteFile(path, body, 0644); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeFile).Errorf("failed to back up page %d: %v", event.Page, err)
		return
	}
	log.Debugf("page %d saved to %s", event.Page, path)
}
