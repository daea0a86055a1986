package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"apigrader/internal/helpers"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// DefaultFile - имя файла конфигурации в рабочем каталоге
const DefaultFile = "apigrader.json5"

// Config - настройки грейдера
type Config struct {
	UserAgent string `json:"userAgent"`
	// Timeout - таймаут одного запроса в формате time.ParseDuration, пусто = без таймаута
	Timeout string `json:"timeout"`
	OutDir  string `json:"outDir"`
	CSVName string `json:"csvName"`
	ZipName string `json:"zipName"`
	// DB - путь к SQLite для сохранения прогонов, пусто = не сохранять
	DB   string `json:"db"`
	Port int    `json:"port"`
}

// Default - значения по умолчанию
func Default() Config {
	return Config{
		UserAgent: helpers.DefaultUserAgent,
		OutDir:    "results",
		CSVName:   "grading_results.csv",
		ZipName:   "grading_results.zip",
		Port:      8080,
	}
}

// TimeoutDuration - разобранный таймаут
func (c Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", c.Timeout)
	}
	return d, nil
}

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// Load - читает <name> и <name без расширения>.local.<ext>, локальный файл
// перекрывает основной. Отсутствие обоих файлов не ошибка: вернутся значения по умолчанию.
func Load(name string) (Config, error) {
	cfg, err := read[Config](name)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return Config{}, fmt.Errorf("apply config defaults: %w", err)
	}
	if _, err := cfg.TimeoutDuration(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func read[T any](name string) (T, error) {
	var out T
	allNotFound := true

	dirname := filepath.Dir(name)
	prefixname, ext := splitExt(filepath.Base(name))

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, fmt.Errorf("read %s: %w", name, err)
	}
	if len(defaultFile) > 0 {
		if err := json5.Unmarshal(defaultFile, &out); err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		allNotFound = false
	}

	localPath := filepath.Join(dirname, fmt.Sprintf("%s.local.%s", prefixname, ext))
	localFile, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, fmt.Errorf("read %s: %w", localPath, err)
	}
	if len(localFile) > 0 {
		var override T
		if err := json5.Unmarshal(localFile, &override); err != nil {
			return out, fmt.Errorf("parse %s: %w", localPath, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, fmt.Errorf("merge %s: %w", localPath, err)
		}
		slog.Debug("merging config with local overrides", "local", localPath)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}
	return out, nil
}
