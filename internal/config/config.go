package config

import (
	"fmt"
	"time"
)

// Config holds the settings for one stage window.
type Config struct {
	// X display to connect to. Empty uses $DISPLAY.
	Display string `yaml:"display"`

	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	UserResizable bool `yaml:"user_resizable"`
	Fullscreen    bool `yaml:"fullscreen"`
	CursorVisible bool `yaml:"cursor_visible"`
	AcceptFocus   bool `yaml:"accept_focus"`

	MinWidth  int `yaml:"min_width"`
	MinHeight int `yaml:"min_height"`

	// Quiet period after the last size change during which redraws are
	// not clipped.
	ResizeCoolOff time.Duration `yaml:"resize_cooloff"`

	AtomCacheSize int `yaml:"atom_cache_size"`

	// Key bindings active while the stage has focus. Empty disables.
	FullscreenKey string `yaml:"fullscreen_key"`
	QuitKey       string `yaml:"quit_key"`

	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`
}

func DefaultConfig() *Config {
	return &Config{
		Title:         "x11stage",
		Width:         640,
		Height:        480,
		CursorVisible: true,
		AcceptFocus:   true,
		MinWidth:      1,
		MinHeight:     1,
		ResizeCoolOff: time.Second,
		AtomCacheSize: 128,
		FullscreenKey: "F11",
		QuitKey:       "Escape",
		LogLevel:      "info",
	}
}

// ValidationError reports an invalid setting, with its file position when
// the value came from a config file.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (c *Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		path := "width"
		if c.Width >= 1 {
			path = "height"
		}
		return &ValidationError{Path: path, Err: fmt.Errorf("stage size must be at least 1x1")}
	}
	if c.MinWidth < 1 || c.MinHeight < 1 {
		path := "min_width"
		if c.MinWidth >= 1 {
			path = "min_height"
		}
		return &ValidationError{Path: path, Err: fmt.Errorf("minimum size must be at least 1x1")}
	}
	if c.MinWidth > c.Width || c.MinHeight > c.Height {
		return &ValidationError{Path: "min_width", Err: fmt.Errorf("minimum size %dx%d exceeds stage size %dx%d", c.MinWidth, c.MinHeight, c.Width, c.Height)}
	}
	if c.ResizeCoolOff <= 0 {
		return &ValidationError{Path: "resize_cooloff", Err: fmt.Errorf("resize_cooloff must be > 0")}
	}
	if c.AtomCacheSize < 1 {
		return &ValidationError{Path: "atom_cache_size", Err: fmt.Errorf("atom_cache_size must be >= 1")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	return nil
}
