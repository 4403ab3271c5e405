package main

import (
	"fmt"

	"github.com/plotpoint/calibration-agent/internal/calibration"
	"github.com/plotpoint/calibration-agent/internal/projector"
	"github.com/spf13/viper"
)

// DefaultWebAddress is the deployed plot-digitizer application.
const DefaultWebAddress = "https://master--adorable-gelato-b069ba.netlify.app/"

// Config holds application configuration
type Config struct {
	URL      string      `mapstructure:"url"`
	Headless bool        `mapstructure:"headless"`
	ImageDir string      `mapstructure:"image_dir"`
	Image    ImageConfig `mapstructure:"image"`
}

// ImageConfig mirrors calibration.ImageSpec with config-file keys.
type ImageConfig struct {
	File   string        `mapstructure:"file"`
	Width  float64       `mapstructure:"width"`
	XAxis  AxisConfig    `mapstructure:"x_axis"`
	YAxis  AxisConfig    `mapstructure:"y_axis"`
	Points []PointConfig `mapstructure:"points"`
}

// AxisConfig is one axis's two reference points and values.
type AxisConfig struct {
	Point1 PointConfig `mapstructure:"point1"`
	Point2 PointConfig `mapstructure:"point2"`
	Value1 float64     `mapstructure:"value1"`
	Value2 float64     `mapstructure:"value2"`
}

// PointConfig is a pixel coordinate in the original capture.
type PointConfig struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

// LoadConfig loads configuration from defaults, an optional config file
// (calibration.yaml), and CALIBRATE_* environment variables. The
// defaults are the canonical recorded session, so the tool runs with no
// config file at all.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("calibration")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.calibrate")
	}

	// Set defaults: the canonical recorded session. Keys absent from
	// the file keep these values; a points list in the file replaces
	// the default list wholesale.
	setDefaults()

	// Read environment variables
	viper.SetEnvPrefix("CALIBRATE")
	viper.AutomaticEnv()

	// Read config file (optional - don't fail if missing, unless one
	// was named explicitly)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK - we'll use defaults
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

func setDefaults() {
	spec := calibration.DefaultSpec()

	viper.SetDefault("url", DefaultWebAddress)
	viper.SetDefault("headless", false)
	viper.SetDefault("image_dir", ".")
	viper.SetDefault("image.file", spec.FileName)
	viper.SetDefault("image.width", spec.Width)

	setAxisDefaults("image.x_axis", spec.XAxis)
	setAxisDefaults("image.y_axis", spec.YAxis)

	points := make([]map[string]float64, len(spec.DataPoints))
	for i, p := range spec.DataPoints {
		points[i] = map[string]float64{"x": p.X, "y": p.Y}
	}
	viper.SetDefault("image.points", points)
}

func setAxisDefaults(key string, a calibration.AxisCalibration) {
	viper.SetDefault(key+".point1.x", a.Point1.X)
	viper.SetDefault(key+".point1.y", a.Point1.Y)
	viper.SetDefault(key+".point2.x", a.Point2.X)
	viper.SetDefault(key+".point2.y", a.Point2.Y)
	viper.SetDefault(key+".value1", a.Value1)
	viper.SetDefault(key+".value2", a.Value2)
}

// Spec converts the loaded configuration into the immutable image spec.
func (c *Config) Spec() calibration.ImageSpec {
	points := make([]projector.Point, len(c.Image.Points))
	for i, p := range c.Image.Points {
		points[i] = projector.Point{X: p.X, Y: p.Y}
	}

	return calibration.ImageSpec{
		FileName:   c.Image.File,
		Width:      c.Image.Width,
		XAxis:      c.Image.XAxis.spec(),
		YAxis:      c.Image.YAxis.spec(),
		DataPoints: points,
	}
}

func (a AxisConfig) spec() calibration.AxisCalibration {
	return calibration.AxisCalibration{
		Point1: projector.Point{X: a.Point1.X, Y: a.Point1.Y},
		Point2: projector.Point{X: a.Point2.X, Y: a.Point2.Y},
		Value1: a.Value1,
		Value2: a.Value2,
	}
}
