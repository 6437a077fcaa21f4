// Package config loads tool configuration: built-in defaults, an optional
// TOML file, then environment overrides. Command-line flags sit on top and
// are applied by the CLI layer.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Logging configures log output.
type Logging struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=pretty json"`
}

// Scan configures page scanning and chapter parsing.
type Scan struct {
	// PrependPartNames prefixes chapter titles with their part label.
	PrependPartNames bool `toml:"prepend_part_names"`
	// SynthesizeTitles replaces blank chapter titles with "Chapter N"
	// instead of failing the run.
	SynthesizeTitles bool `toml:"synthesize_titles"`
	// NoResume ignores a previously saved track metafile.
	NoResume bool `toml:"no_resume"`
}

// Sanitize configures filename generation.
type Sanitize struct {
	// BannedCharacters may not appear in generated filenames.
	BannedCharacters string `toml:"banned_characters" validate:"required"`
	// Separator replaces banned characters; exactly one character.
	Separator string `toml:"separator" validate:"required,len=1"`
	// FieldSeparator splits title from offsets in track metafiles.
	FieldSeparator string `toml:"field_separator" validate:"required,len=1"`
}

// Export configures the ffmpeg export run.
type Export struct {
	// OutputDir receives chapter files; empty means a folder named after
	// the book in the working directory.
	OutputDir string `toml:"output_dir"`
	// Format is the output extension; ffmpeg derives the codec.
	Format string `toml:"format" validate:"required,alphanum"`
	// FFmpegPath overrides ffmpeg lookup on PATH.
	FFmpegPath string `toml:"ffmpeg_path"`
	// Override replaces existing output files.
	Override bool `toml:"override"`
	// SkipExisting skips chapters whose output file already exists.
	SkipExisting bool `toml:"skip_existing"`
	// Limit caps exported files per run; 0 exports everything.
	Limit int `toml:"limit" validate:"min=0"`
	// WriteTags writes title/track and inherited tags into outputs.
	WriteTags bool `toml:"write_tags"`
}

// Config is the full tool configuration.
type Config struct {
	Logging  Logging  `toml:"logging"`
	Scan     Scan     `toml:"scan"`
	Sanitize Sanitize `toml:"sanitize"`
	Export   Export   `toml:"export"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: Logging{
			Level:  "info",
			Format: "pretty",
		},
		Scan: Scan{
			PrependPartNames: true,
			SynthesizeTitles: true,
		},
		Sanitize: Sanitize{
			BannedCharacters: `/\:*?"<>|`,
			Separator:        "_",
			FieldSeparator:   "|",
		},
		Export: Export{
			Format:       "mp3",
			SkipExisting: true,
			WriteTags:    true,
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (or
// the default location when path is empty; a missing default file is fine),
// then environment overrides, then validation.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No config file is the common case.
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "timestamper.toml"
	}
	return filepath.Join(base, "timestamper", "config.toml")
}

// WriteSample writes the annotated sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// applyEnv maps TIMESTAMPER_* variables onto the config.
func applyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	set("TIMESTAMPER_LOG_LEVEL", &cfg.Logging.Level)
	set("TIMESTAMPER_LOG_FORMAT", &cfg.Logging.Format)
	set("TIMESTAMPER_FFMPEG", &cfg.Export.FFmpegPath)
	set("TIMESTAMPER_OUTPUT_DIR", &cfg.Export.OutputDir)
	set("TIMESTAMPER_FORMAT", &cfg.Export.Format)
}

// Validate checks field constraints and reports every violation at once.
func (c Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// SeparatorRune returns the sanitizer separator as a rune.
func (s Sanitize) SeparatorRune() rune {
	return firstRune(s.Separator, '_')
}

// FieldSeparatorRune returns the metafile field separator as a rune.
func (s Sanitize) FieldSeparatorRune() rune {
	return firstRune(s.FieldSeparator, '|')
}

func firstRune(s string, fallback rune) rune {
	for _, r := range s {
		return r
	}
	return fallback
}
