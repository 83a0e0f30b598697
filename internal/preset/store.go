package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/monarch/internal/layout"
)

var (
	// ErrExists is returned by Save when the preset is already on disk
	// and the caller did not ask to overwrite.
	ErrExists = errors.New("preset already exists")
	// ErrNotFound is returned when no preset with the given name is
	// stored.
	ErrNotFound = errors.New("preset not found")
)

// recentStem is the implicit slot holding the last confirmed apply.
// Sanitize never produces a leading dot, so user presets cannot
// collide with it.
const recentStem = ".recent"

// Store reads and writes presets under one directory, one JSON file
// per preset.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the per-user preset directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "monarch", "presets"), nil
}

// Sanitize maps a user-supplied preset name to a filesystem-safe file
// stem. Unsafe runes become dashes; when anything had to change, a
// short hash of the raw name is appended so distinct inputs cannot
// collapse onto the same stem.
func Sanitize(name string) string {
	trimmed := strings.TrimSpace(name)
	var b strings.Builder
	lastDash := true
	for _, r := range trimmed {
		safe := r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if safe {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	clean := strings.Trim(b.String(), "-")
	if clean == trimmed && clean != "" {
		return clean
	}
	if clean == "" {
		clean = "preset"
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprintf("%s-%08x", clean, h.Sum32())
}

func (s *Store) path(stem string) string {
	return filepath.Join(s.dir, stem+".json")
}

// Save persists the outputs under name and returns the sanitized stem
// the preset is stored as. Without overwrite an existing preset of the
// same stem fails with ErrExists so the caller can confirm first.
func (s *Store) Save(name string, outputs []layout.Output, overwrite bool) (string, error) {
	stem := Sanitize(name)
	if !overwrite {
		if _, err := os.Stat(s.path(stem)); err == nil {
			return stem, fmt.Errorf("preset %q: %w", stem, ErrExists)
		}
	}
	p := &Preset{Name: stem, SavedAt: time.Now().UTC(), Outputs: RecordsFrom(outputs)}
	if err := s.write(stem, p); err != nil {
		return stem, err
	}
	return stem, nil
}

// SaveRecent records the layout of the most recent confirmed apply in
// the implicit slot.
func (s *Store) SaveRecent(outputs []layout.Output) error {
	p := &Preset{Name: recentStem, SavedAt: time.Now().UTC(), Outputs: RecordsFrom(outputs)}
	return s.write(recentStem, p)
}

func (s *Store) write(stem string, p *Preset) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create preset directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preset: %w", err)
	}
	if err := os.WriteFile(s.path(stem), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write preset %q: %w", stem, err)
	}
	return nil
}

// Load reads one preset. The returned value shares nothing with the
// store; callers may mutate it freely.
func (s *Store) Load(name string) (*Preset, error) {
	return s.read(Sanitize(name))
}

// MostRecentApply returns the layout persisted by the last confirmed
// apply, or ErrNotFound if none was ever confirmed here.
func (s *Store) MostRecentApply() (*Preset, error) {
	return s.read(recentStem)
}

func (s *Store) read(stem string) (*Preset, error) {
	data, err := os.ReadFile(s.path(stem))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("preset %q: %w", stem, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read preset %q: %w", stem, err)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse preset %q: %w", stem, err)
	}
	if p.Name == "" {
		p.Name = stem
	}
	return &p, nil
}

// Delete removes a stored preset.
func (s *Store) Delete(name string) error {
	stem := Sanitize(name)
	if err := os.Remove(s.path(stem)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("preset %q: %w", stem, ErrNotFound)
		}
		return fmt.Errorf("failed to delete preset %q: %w", stem, err)
	}
	return nil
}

// List returns stored preset stems in name order. The first nine map
// positionally onto the numeric hotkey slots.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}
