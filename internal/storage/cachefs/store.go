// Package cachefs implements the directory-per-identity response cache
// under the ofxpostern data root.
package cachefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BarakBinyamin/ofxpostern/internal/common"
	"github.com/BarakBinyamin/ofxpostern/internal/interfaces"
	"github.com/BarakBinyamin/ofxpostern/internal/models"
)

const (
	// dirMode keeps cached responses readable by owner and group only.
	dirMode = 0o770

	fiDirName     = "fi"
	headersSuffix = "headers"
	bodySuffix    = "body"
)

// requestNameReplacer normalizes a request name into a filename prefix.
var requestNameReplacer = strings.NewReplacer("/", "+", " ", "_")

// Store is the file-based response cache: one directory per server
// identity, two artifacts per request name.
type Store struct {
	basePath string
	logger   *common.Logger
}

// NewStore creates a cache store rooted at basePath.
func NewStore(logger *common.Logger, basePath string) *Store {
	return &Store{
		basePath: basePath,
		logger:   logger,
	}
}

// DataPath returns the base data path.
func (s *Store) DataPath() string {
	return s.basePath
}

// identityDir returns the per-identity cache directory path.
func (s *Store) identityDir(identity models.ServerIdentity) string {
	return filepath.Join(s.basePath, fiDirName, identity.CacheKey())
}

// EnsureLayout idempotently creates the data root, the institution cache
// root, and the per-identity directory, returning the identity directory
// path. Any failure here is fatal to the session.
func (s *Store) EnsureLayout(identity models.ServerIdentity) (string, error) {
	dirs := []string{
		s.basePath,
		filepath.Join(s.basePath, fiDirName),
		s.identityDir(identity),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return "", fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
	}

	s.logger.Debug().Str("path", dirs[2]).Msg("Cache layout ready")
	return dirs[2], nil
}

// artifactPath returns the path of one artifact for a request name.
func (s *Store) artifactPath(identity models.ServerIdentity, requestName, suffix string) string {
	name := requestNameReplacer.Replace(requestName) + "-" + suffix
	return filepath.Join(s.identityDir(identity), name)
}

// Write persists the headers and body of one exchange, silently replacing
// any prior entry for the same identity and request name. Headers are
// serialized as JSON; the body is written byte-for-byte.
func (s *Store) Write(identity models.ServerIdentity, requestName string, headers map[string]string, body string) error {
	headerData, err := json.Marshal(headers)
	if err != nil {
		return fmt.Errorf("failed to marshal headers: %w", err)
	}

	if err := writeFile(s.artifactPath(identity, requestName, headersSuffix), headerData); err != nil {
		return err
	}
	if err := writeFile(s.artifactPath(identity, requestName, bodySuffix), []byte(body)); err != nil {
		return err
	}

	s.logger.Debug().
		Str("request", requestName).
		Int("bytes", len(body)).
		Msg("Cache entry written")
	return nil
}

// ReadBody returns the cached raw body for the request name.
func (s *Store) ReadBody(identity models.ServerIdentity, requestName string) (string, error) {
	path := s.artifactPath(identity, requestName, bodySuffix)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read cached body %s: %w", path, err)
	}
	return string(data), nil
}

// ReadHeaders returns the cached headers for the request name.
func (s *Store) ReadHeaders(identity models.ServerIdentity, requestName string) (map[string]string, error) {
	path := s.artifactPath(identity, requestName, headersSuffix)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached headers %s: %w", path, err)
	}
	var headers map[string]string
	if err := json.Unmarshal(data, &headers); err != nil {
		return nil, fmt.Errorf("failed to parse cached headers %s: %w", path, err)
	}
	return headers, nil
}

// writeFile writes data atomically via a temp file in the target
// directory, so a crashed session never leaves a truncated artifact.
func writeFile(target string, data []byte) error {
	dir := filepath.Dir(target)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Ensure Store implements CacheStore
var _ interfaces.CacheStore = (*Store)(nil)
