package canvas

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Default scale bounds. They match the range of common diagram editors and
// keep repeated wheel zooms from collapsing the view.
const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 10.0
)

// Config holds engine settings. Zero MinScale and MaxScale leave the scale
// unbounded.
type Config struct {
	// ZoomStep is the factor of one zoom-in step; zoom out uses 1/ZoomStep.
	ZoomStep float64 `envconfig:"ZOOM_STEP" default:"1.1"`
	// MinScale and MaxScale bound the scale. Zero disables a side.
	MinScale float64 `envconfig:"MIN_SCALE" default:"0.1"`
	MaxScale float64 `envconfig:"MAX_SCALE" default:"10"`
	// PanButtons selects the buttons that start a pan.
	PanButtons ButtonMask `envconfig:"PAN_BUTTONS" default:"any"`
	// AnimationSeconds is the duration of ResetView and ZoomToFit
	// transitions. Zero makes them instant.
	AnimationSeconds float64 `envconfig:"ANIMATION_SECONDS" default:"0.25"`
	// Debug logs every dispatched event at debug level.
	Debug bool `envconfig:"DEBUG" default:"false"`
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		ZoomStep:         DefaultZoomStep,
		MinScale:         DefaultMinScale,
		MaxScale:         DefaultMaxScale,
		PanButtons:       ButtonMaskAny,
		AnimationSeconds: 0.25,
	}
}

// UnboundedConfig returns DefaultConfig with no scale limits.
func UnboundedConfig() Config {
	cfg := DefaultConfig()
	cfg.MinScale = 0
	cfg.MaxScale = 0
	return cfg
}

// LoadConfig reads settings from the environment. With prefix "canvas" the
// variables are CANVAS_ZOOM_STEP, CANVAS_MIN_SCALE, CANVAS_MAX_SCALE,
// CANVAS_PAN_BUTTONS, CANVAS_ANIMATION_SECONDS and CANVAS_DEBUG.
func LoadConfig(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load canvas config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings for values the engine cannot use.
func (c Config) Validate() error {
	var errs []error
	if !finite(c.ZoomStep) || c.ZoomStep <= 1 {
		errs = append(errs, fmt.Errorf("zoom step %v must be greater than 1", c.ZoomStep))
	}
	if !finite(c.MinScale, c.MaxScale) || c.MinScale < 0 || c.MaxScale < 0 {
		errs = append(errs, fmt.Errorf("scale bounds [%v, %v] must be finite and non-negative", c.MinScale, c.MaxScale))
	} else if c.MinScale > 0 && c.MaxScale > 0 && c.MinScale > c.MaxScale {
		errs = append(errs, fmt.Errorf("min scale %v exceeds max scale %v", c.MinScale, c.MaxScale))
	}
	if !finite(c.AnimationSeconds) || c.AnimationSeconds < 0 {
		errs = append(errs, fmt.Errorf("animation duration %v must be non-negative", c.AnimationSeconds))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid canvas config: %w", err)
	}
	return nil
}

// ScaleBounds returns the configured bounds.
func (c Config) ScaleBounds() ScaleBounds {
	return ScaleBounds{Min: c.MinScale, Max: c.MaxScale}
}
