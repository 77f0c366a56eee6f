package cookies

import (
	"encoding/json"
	"fmt"
	"github.com/maxaizer/boss-scraper/internal/logger"
	log "github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Jar maps cookie names to values. Operations that change a jar return a new one.
type Jar map[string]string

func (j Jar) Clone() Jar {
	clone := make(Jar, len(j))
	for name, value := range j {
		clone[name] = value
	}
	return clone
}

// Header serializes the jar into a single Cookie header value.
func (j Jar) Header() string {
	names := make([]string, 0, len(j))
	for name := range j {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+j[name])
	}
	return strings.Join(pairs, "; ")
}

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() Jar {

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeCookie).
				Errorf("failed to read cookie file %s: %v", s.path, err)
		}
		return Jar{}
	}

	var jar Jar
	if err = json.Unmarshal(data, &jar); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeCookie).
			Errorf("cookie file %s is corrupt, starting with empty jar: %v", s.path, err)
		return Jar{}
	}
	if jar == nil {
		return Jar{}
	}
	return jar
}

func (s *Store) Save(jar Jar) error {

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create cookie directory: %w", err)
	}

	if jar == nil {
		jar = Jar{}
	}
	data, err := json.MarshalIndent(jar, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}

	if err = os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}

// Merge applies raw Set-Cookie header values to a copy of current and persists the result.
// Malformed headers are skipped.
func (s *Store) Merge(setCookieHeaders []string, current Jar) Jar {

	if len(setCookieHeaders) == 0 {
		return current
	}

	merged := current.Clone()
	for _, header := range setCookieHeaders {
		name, value, err := parseSetCookie(header)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeCookie).
				Warnf("skipping cookie header %q: %v", header, err)
			continue
		}
		merged[name] = value
	}

	if err := s.Save(merged); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeCookie).
			Errorf("failed to persist cookies: %v", err)
	}
	return merged
}

func parseSetCookie(header string) (string, string, error) {
	pair, _, _ := strings.Cut(header, ";")
	name, value, found := strings.Cut(pair, "=")
	if !found {
		return "", "", fmt.Errorf("missing '='")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("empty cookie name")
	}
	return name, strings.TrimSpace(value), nil
}

// ParseInjected reads a jar given either as a path to a JSON file or as inline JSON.
func ParseInjected(value string) (Jar, error) {

	data := []byte(value)
	if info, err := os.Stat(value); err == nil && !info.IsDir() {
		if data, err = os.ReadFile(value); err != nil {
			return nil, fmt.Errorf("failed to read cookie file: %w", err)
		}
	}

	var jar Jar
	if err := json.Unmarshal(data, &jar); err != nil {
		return nil, fmt.Errorf("cookies must be a JSON object of name to value: %w", err)
	}
	if jar == nil {
		jar = Jar{}
	}
	return jar, nil
}
