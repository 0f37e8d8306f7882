package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Parse.Encoding != "utf-8" {
		t.Errorf("expected encoding utf-8, got %s", cfg.Parse.Encoding)
	}
	if cfg.Parse.Strict {
		t.Error("expected strict to be false by default")
	}
	if cfg.Parse.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Parse.Workers)
	}

	if cfg.Output.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("expected color to be true by default")
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "objtool.yaml",
			content: `
parse:
  encoding: latin1
  strict: true
  workers: 8
output:
  format: json
  color: false
logging:
  level: debug
  log_file: objtool.log
`,
		},
		{
			name: "toml",
			file: "objtool.toml",
			content: `
[parse]
encoding = "latin1"
strict = true
workers = 8

[output]
format = "json"
color = false

[logging]
level = "debug"
log_file = "objtool.log"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err != nil {
				t.Fatalf("failed to load config: %v", err)
			}

			if cfg.Parse.Encoding != "latin1" {
				t.Errorf("expected encoding latin1, got %s", cfg.Parse.Encoding)
			}
			if !cfg.Parse.Strict {
				t.Error("expected strict to be true")
			}
			if cfg.Parse.Workers != 8 {
				t.Errorf("expected 8 workers, got %d", cfg.Parse.Workers)
			}
			if cfg.Output.Format != "json" {
				t.Errorf("expected format json, got %s", cfg.Output.Format)
			}
			if cfg.Output.Color {
				t.Error("expected color to be false")
			}
			// Not in the file, default survives the merge.
			if !cfg.Output.ShowKeyFrames {
				t.Error("expected show_keyframes default to survive")
			}
			if cfg.Logging.Level != "debug" {
				t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
			}
			if cfg.Logging.LogFile != "objtool.log" {
				t.Errorf("expected log file 'objtool.log', got %s", cfg.Logging.LogFile)
			}
		})
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"invalid.yaml", "parse:\n  workers: not a number\n  invalid syntax here\n"},
		{"invalid.toml", "[parse\nworkers = \n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid config, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/objtool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "objtool.toml"), []byte("[parse]\nworkers = 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./objtool.toml" {
		t.Errorf("expected ./objtool.toml, got %q", path)
	}

	// YAML wins when both exist.
	if err := os.WriteFile(filepath.Join(tmpDir, "objtool.yaml"), []byte("parse:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./objtool.yaml" {
		t.Errorf("expected ./objtool.yaml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "strict flag",
			setup: func() { *flagStrict = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Parse.Strict {
					t.Error("expected strict to be enabled")
				}
			},
			teardown: func() { *flagStrict = false },
		},
		{
			name: "encoding and format flags",
			setup: func() {
				*flagEncoding = "windows-1252"
				*flagFormat = "json"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Parse.Encoding != "windows-1252" {
					t.Errorf("expected encoding windows-1252, got %s", cfg.Parse.Encoding)
				}
				if cfg.Output.Format != "json" {
					t.Errorf("expected format json, got %s", cfg.Output.Format)
				}
			},
			teardown: func() {
				*flagEncoding = ""
				*flagFormat = ""
			},
		},
		{
			name:  "no-color flag",
			setup: func() { *flagNoColor = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Color {
					t.Error("expected color to be disabled")
				}
			},
			teardown: func() { *flagNoColor = false },
		},
		{
			name: "workers and log file flags",
			setup: func() {
				*flagWorkers = 16
				*flagLogFile = "run.log"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Parse.Workers != 16 {
					t.Errorf("expected 16 workers, got %d", cfg.Parse.Workers)
				}
				if cfg.Logging.LogFile != "run.log" {
					t.Errorf("expected log file run.log, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() {
				*flagWorkers = 0
				*flagLogFile = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "objtool.yaml")
	yamlContent := `
parse:
  workers: 2
  encoding: latin1
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWorkers = 12
	defer func() {
		*flagConfig = ""
		*flagWorkers = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats file.
	if cfg.Parse.Workers != 12 {
		t.Errorf("expected 12 workers from flag, got %d", cfg.Parse.Workers)
	}
	// File beats default.
	if cfg.Parse.Encoding != "latin1" {
		t.Errorf("expected encoding latin1 from file, got %s", cfg.Parse.Encoding)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := Default()
			cfg.Parse.Strict = true
			cfg.Output.Format = "json"
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo: %v", err)
			}

			loaded := Default()
			if err := loadFromFile(loaded, path); err != nil {
				t.Fatalf("reload: %v", err)
			}
			if !loaded.Parse.Strict || loaded.Output.Format != "json" {
				t.Errorf("round trip lost values: %+v", loaded)
			}
		})
	}
}

func TestSave(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config dir is only redirectable through XDG_CONFIG_HOME")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	want := filepath.Join(xdg, "xpobj", "objtool.yaml")
	if got := DefaultPath(); got != want {
		t.Fatalf("DefaultPath() = %s, want %s", got, want)
	}

	cfg := Default()
	cfg.Parse.Workers = 3
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Discovery finds the saved file when nothing is in the working directory.
	chdir(t, t.TempDir())
	if got := findConfigFile(); got != want {
		t.Errorf("findConfigFile() = %q, want %q", got, want)
	}

	loaded := Default()
	if err := loadFromFile(loaded, want); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Parse.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", loaded.Parse.Workers)
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
