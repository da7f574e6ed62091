package settings

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// FileStore keeps the Namespace section in a YAML file. Every call reads the
// file again so edits made by other processes are picked up. Writes hold an
// exclusive lock on a file next to it and replace the file by rename; reads
// hold a shared lock.
type FileStore struct {
	path      string
	namespace string
	logger    *slog.Logger

	mu         sync.Mutex
	lastChange *Change
}

// New creates a store backed by path.
func New(path string, logger *slog.Logger) *FileStore {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, namespace: Namespace, logger: logger}
}

// DefaultPath returns the default settings file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "editorjump", "settings.yaml")
}

// Path returns the file the store writes to.
func (s *FileStore) Path() string {
	return s.path
}

// Contents returns the raw file, or nil when it does not exist yet.
func (s *FileStore) Contents() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

// LastChange returns the diff of the most recent Update, if any.
func (s *FileStore) LastChange() *Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastChange
}

func (s *FileStore) Get(key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(filepath.Dir(s.path)); os.IsNotExist(err) {
		return false, nil
	}
	lock := flock.New(s.path + ".lock")
	if err := lock.RLock(); err != nil {
		return false, fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer lock.Unlock()

	root, _, err := s.load()
	if err != nil {
		return false, err
	}

	section := mappingValue(root.Content[0], s.namespace)
	if section == nil || section.Kind != yaml.MappingNode {
		return false, nil
	}
	node := mappingValue(section, key)
	if node == nil {
		return false, nil
	}
	if err := node.Decode(out); err != nil {
		return true, fmt.Errorf("decode %s.%s: %w", s.namespace, key, err)
	}
	return true, nil
}

func (s *FileStore) Update(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer lock.Unlock()

	root, before, err := s.load()
	if err != nil {
		return err
	}

	node := &yaml.Node{}
	if err := node.Encode(value); err != nil {
		return fmt.Errorf("encode %s.%s: %w", s.namespace, key, err)
	}
	section := mappingValue(root.Content[0], s.namespace)
	if section == nil || section.Kind != yaml.MappingNode {
		section = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		setMappingValue(root.Content[0], s.namespace, section)
	}
	setMappingValue(section, key, node)

	data, err := yaml.Marshal(root)
	if err != nil {
		return err
	}
	if err := writeFile(s.path, data); err != nil {
		return err
	}

	change := NewChange(key, string(before), string(data))
	s.lastChange = change
	s.logger.Debug("settings updated", "key", key, "added", change.Added, "removed", change.Removed)
	return nil
}

// load returns the document node of the file, whose only child is the
// top-level mapping, along with the raw bytes.
func (s *FileStore) load() (*yaml.Node, []byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) == 0 {
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 || root.Content[0].Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("parse %s: top level is not a mapping", s.path)
	}
	return &root, data, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func setMappingValue(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// writeFile replaces path in one rename so readers never see a partial file.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
