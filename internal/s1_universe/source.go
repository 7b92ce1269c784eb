package s1_universe

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/wonny/pulse/backend/internal/contracts"
	"github.com/wonny/pulse/backend/pkg/logger"
)

// 유니버스 이름은 파일명으로 쓰이므로 경로 문자를 금지
var universeNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Source loads named universes from headerless CSV files, one ticker per
// row, under a single directory. The file name (without .csv) is the
// universe name.
// ⭐ SSOT: 유니버스 파일 접근은 여기서만
type Source struct {
	dir    string
	logger *logger.Logger
}

// NewSource creates a universe source rooted at dir.
func NewSource(dir string, log *logger.Logger) *Source {
	return &Source{
		dir:    dir,
		logger: log,
	}
}

// Path returns the CSV path backing a universe name.
func (s *Source) Path(name string) string {
	return filepath.Join(s.dir, name+".csv")
}

// Load returns the ordered, normalized, deduplicated symbol list for a
// universe. A missing file is contracts.ErrUniverseNotFound, a distinct
// condition from read failures.
func (s *Source) Load(name string) ([]string, error) {
	if !universeNameRe.MatchString(name) {
		return nil, fmt.Errorf("universe %q: %w", name, contracts.ErrUniverseNotFound)
	}

	f, err := os.Open(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("universe %q: %w", name, contracts.ErrUniverseNotFound)
		}
		return nil, fmt.Errorf("open universe %q: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	raw := make([]string, 0, 64)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read universe %q: %w", name, err)
		}
		if len(record) == 0 {
			continue
		}
		raw = append(raw, record[0])
	}

	symbols := NormalizeAll(raw)
	s.logger.WithFields(map[string]interface{}{
		"universe": name,
		"symbols":  len(symbols),
	}).Debug("Universe loaded")

	return symbols, nil
}

// List returns the sorted names of all universes in the directory. A
// missing directory yields an empty list.
func (s *Source) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read universe dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(e.Name(), ".csv")
		if !ok || !universeNameRe.MatchString(name) {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// Save writes a universe file atomically (temp file + rename) so a reader
// never observes a partially written list. Symbols are stored as given.
func (s *Source) Save(name string, symbols []string) error {
	if !universeNameRe.MatchString(name) {
		return fmt.Errorf("invalid universe name %q", name)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create universe dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".csv.tmp-*")
	if err != nil {
		return fmt.Errorf("create temp universe file: %w", err)
	}
	tmpPath := tmp.Name()

	writer := csv.NewWriter(tmp)
	for _, sym := range symbols {
		if err := writer.Write([]string{sym}); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("write universe %q: %w", name, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush universe %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp universe file: %w", err)
	}

	if err := os.Rename(tmpPath, s.Path(name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace universe %q: %w", name, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"universe": name,
		"symbols":  len(symbols),
	}).Info("Universe saved")

	return nil
}
