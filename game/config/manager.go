package config

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/giftrun/game/engine"
	"github.com/wricardo/mcp-training/giftrun/game/service"
)

// DefaultLevel is the level used when none is configured. It is built into
// the engine and has no level file unless the level directory provides one.
const DefaultLevel = "sleigh_run"

var (
	ErrLevelNotFound = service.ErrLevelNotFound
	ErrInvalidLevel  = service.ErrInvalidLevel
	ErrReadOnly      = errors.New("no levels directory configured")
)

//go:embed levels/*
var embeddedFS embed.FS

// levelExtensions lists the accepted level file extensions in lookup order
var levelExtensions = []string{".json", ".yaml", ".yml"}

// Manager handles level loading and caching. Levels come from an optional
// directory on disk and from the set compiled into the binary; files on disk
// shadow embedded levels with the same name.
type Manager struct {
	levelDir      string
	defaultName   string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new level manager. An empty levelDir serves embedded
// levels only.
func NewManager(levelDir string) (*Manager, error) {
	if levelDir != "" {
		info, err := os.Stat(levelDir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("level directory does not exist: %s", levelDir)
			}
			return nil, fmt.Errorf("failed to stat level directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("level path is not a directory: %s", levelDir)
		}
	}

	m := &Manager{
		levelDir:    levelDir,
		defaultName: DefaultLevel,
		configs:     make(map[string]*engine.GameConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadLevel loads a level by name, with or without a file extension
func (m *Manager) LoadLevel(name string) (*engine.GameConfig, error) {
	id, err := LevelID(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config, nil
	}

	config, err := m.readLevel(id)
	if err != nil {
		return nil, err
	}

	m.configs[id] = config
	return config, nil
}

// readLevel finds, decodes and validates a level. Callers hold the write lock.
func (m *Manager) readLevel(id string) (*engine.GameConfig, error) {
	filename, data, err := m.find(id)
	if errors.Is(err, ErrLevelNotFound) && id == DefaultLevel {
		return engine.DefaultGameConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	config, err := engine.DecodeGameConfig(data, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	return config, nil
}

// find returns the raw level document, preferring the level directory
func (m *Manager) find(id string) (string, []byte, error) {
	if m.levelDir != "" {
		for _, ext := range levelExtensions {
			filename := filepath.Join(m.levelDir, id+ext)
			data, err := os.ReadFile(filename)
			if err == nil {
				return filename, data, nil
			}
			if !os.IsNotExist(err) {
				return "", nil, fmt.Errorf("failed to read level file: %w", err)
			}
		}
	}

	for _, ext := range levelExtensions {
		filename := path.Join("levels", id+ext)
		data, err := embeddedFS.ReadFile(filename)
		if err == nil {
			return filename, data, nil
		}
	}

	return "", nil, fmt.Errorf("%w: '%s'", ErrLevelNotFound, id)
}

// LevelFile names one level document, embedded or in the level directory.
// The built-in default level has no Filename.
type LevelFile struct {
	ID       string
	Filename string
	Embedded bool
}

// LevelFiles lists every level document by ID, valid or not, sorted by ID.
// A file in the level directory shadows an embedded level with the same ID.
func (m *Manager) LevelFiles() ([]LevelFile, error) {
	files := map[string]LevelFile{
		DefaultLevel: {ID: DefaultLevel, Embedded: true},
	}

	entries, err := fs.ReadDir(embeddedFS, "levels")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded levels: %w", err)
	}
	for _, entry := range entries {
		if id, ok := levelFileID(entry); ok {
			files[id] = LevelFile{ID: id, Filename: entry.Name(), Embedded: true}
		}
	}

	if m.levelDir != "" {
		entries, err := os.ReadDir(m.levelDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read level directory: %w", err)
		}
		for _, entry := range entries {
			if id, ok := levelFileID(entry); ok {
				files[id] = LevelFile{ID: id, Filename: entry.Name()}
			}
		}
	}

	list := make([]LevelFile, 0, len(files))
	for _, f := range files {
		list = append(list, f)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// ListLevels returns information about all playable levels, sorted by ID.
// Levels that fail validation are skipped; LevelFiles lists them too.
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	files, err := m.LevelFiles()
	if err != nil {
		return nil, err
	}

	levels := make([]*service.LevelInfo, 0, len(files))
	for _, file := range files {
		id := file.ID
		config, err := m.LoadLevel(id)
		if err != nil {
			continue
		}

		info := &service.LevelInfo{
			Filename:     file.Filename,
			LevelID:      id,
			Name:         config.Name,
			Description:  config.Description,
			Height:       len(config.Layout),
			MaxMoves:     config.MaxMoves,
			Collectibles: countChar(config.Layout, engine.CharCollectible),
			Embedded:     file.Embedded,
		}
		if len(config.Layout) > 0 {
			info.Width = len([]rune(config.Layout[0]))
		}
		levels = append(levels, info)
	}

	return levels, nil
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// DefaultID returns the ID of the default level
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultName
}

// SetDefault sets the default level by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadLevel(name)
	if err != nil {
		return err
	}

	id, _ := LevelID(name)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = id
	m.defaultConfig = config
	return nil
}

// RefreshCache drops cached levels so edited files are read again
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig loads the default level, falling back to the built-in one
func (m *Manager) loadDefaultConfig() error {
	m.mu.RLock()
	name := m.defaultName
	m.mu.RUnlock()

	config, err := m.LoadLevel(name)
	if err != nil {
		if !errors.Is(err, ErrLevelNotFound) {
			return err
		}
		config = engine.DefaultGameConfig()
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveLevel validates a level and writes it to the level directory as JSON
func (m *Manager) SaveLevel(name string, config *engine.GameConfig) error {
	if m.levelDir == "" {
		return ErrReadOnly
	}

	id, err := LevelID(name)
	if err != nil {
		return err
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Replace any YAML version of the level
	for _, ext := range levelExtensions[1:] {
		os.Remove(filepath.Join(m.levelDir, id+ext))
	}

	if err := os.WriteFile(filepath.Join(m.levelDir, id+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	m.configs[id] = config
	return nil
}

// LevelID strips a known extension and rejects names that could escape the level directory
func LevelID(name string) (string, error) {
	id := strings.TrimSpace(name)
	for _, ext := range levelExtensions {
		if strings.HasSuffix(strings.ToLower(id), ext) {
			id = id[:len(id)-len(ext)]
			break
		}
	}
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("%w: invalid level name '%s'", ErrLevelNotFound, name)
	}
	return id, nil
}

func levelFileID(entry fs.DirEntry) (string, bool) {
	if entry.IsDir() {
		return "", false
	}
	name := entry.Name()
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range levelExtensions {
		if ext == known {
			return strings.TrimSuffix(name, filepath.Ext(name)), true
		}
	}
	return "", false
}

func countChar(layout []string, ch rune) int {
	count := 0
	for _, row := range layout {
		count += strings.Count(row, string(ch))
	}
	return count
}
