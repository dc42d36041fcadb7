package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
)

// Store writes product graphics under
// {root}/{area}/{sub_area}/{product}/{reference_system}/.
type Store struct {
	root       string
	frameDelay int
	logger     *slog.Logger
}

// NewStore creates a store rooted at root.
func NewStore(root string, frameDelay int, logger *slog.Logger) *Store {
	return &Store{root: root, frameDelay: frameDelay, logger: logger}
}

// Dir returns the directory holding key's graphics.
func (s *Store) Dir(key domain.OutputKey) string {
	parts := []string{s.root, pathPart(key.Area)}
	if key.SubArea != "" {
		parts = append(parts, pathPart(key.SubArea))
	}
	parts = append(parts, pathPart(key.Product), pathPart(key.ReferenceSystem))
	return filepath.Join(parts...)
}

// WriteImages writes each image as Period_{index}.png and returns their
// paths. Period images of an earlier, longer run that this run did not
// rewrite are removed.
func (s *Store) WriteImages(key domain.OutputKey, images []domain.PeriodImage) ([]string, error) {
	dir := s.Dir(key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	paths := make([]string, 0, len(images))
	written := make(map[string]bool, len(images))
	for _, pi := range images {
		var buf bytes.Buffer
		if err := png.Encode(&buf, pi.Image); err != nil {
			return nil, fmt.Errorf("encode period %d: %w", pi.Index, err)
		}
		name := periodFile(pi.Index)
		path := filepath.Join(dir, name)
		if err := writeFile(path, buf.Bytes()); err != nil {
			return nil, err
		}
		written[name] = true
		paths = append(paths, path)
	}
	if err := s.removeStale(dir, written); err != nil {
		return nil, err
	}
	s.logger.Debug("images written", "dir", dir, "count", len(paths))
	return paths, nil
}

func periodFile(index int) string {
	return fmt.Sprintf("Period_%d.png", index)
}

// removeStale deletes Period_{n}.png files in dir that are not in keep.
func (s *Store) removeStale(dir string, keep map[string]bool) error {
	matches, err := filepath.Glob(filepath.Join(dir, "Period_*.png"))
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}
	for _, path := range matches {
		name := filepath.Base(path)
		var n int
		if _, err := fmt.Sscanf(name, "Period_%d.png", &n); err != nil || periodFile(n) != name || keep[name] {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove stale %s: %w", path, err)
		}
		s.logger.Debug("stale period image removed", "path", path)
	}
	return nil
}

// WriteAnimation writes images as {product}.gif next to the period images.
func (s *Store) WriteAnimation(key domain.OutputKey, images []image.Image) (string, error) {
	dir := s.Dir(key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	var buf bytes.Buffer
	if err := EncodeGIF(&buf, images, s.frameDelay); err != nil {
		return "", fmt.Errorf("encode %s animation: %w", key.Product, err)
	}
	path := filepath.Join(dir, pathPart(key.Product)+".gif")
	if err := writeFile(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// writeFile replaces path via a temporary sibling so readers never see a
// partial image.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// pathPart keeps a name usable as one path element.
func pathPart(name string) string {
	name = strings.NewReplacer("/", "-", `\`, "-", "\x00", "").Replace(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}
