package scenefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/philipparndt/goscene/pkg/geometry"
)

// Format is the encoding of a scene file
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format by file extension, YAML unless .json
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Vec is a point or direction written as [x, y, z]
type Vec [3]float64

// Vector3 converts to a geometry vector
func (v Vec) Vector3() geometry.Vector3 {
	return geometry.NewVector3(v[0], v[1], v[2])
}

// vecOr converts v, falling back to def when it is absent
func vecOr(v *Vec, def geometry.Vector3) geometry.Vector3 {
	if v == nil {
		return def
	}
	return v.Vector3()
}

// Duration accepts Go duration strings ("1.5s", "300ms") or a number of seconds
type Duration time.Duration

func parseDuration(s string) (Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return Duration(d), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := parseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	parsed, err := parseDuration(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ViewportEntry is the drawing surface size
type ViewportEntry struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// CameraEntry overrides parts of the default camera. Fit frames all shapes
// and ignores position and target.
type CameraEntry struct {
	Position *Vec    `json:"position,omitempty" yaml:"position,omitempty"`
	Target   *Vec    `json:"target,omitempty" yaml:"target,omitempty"`
	Up       *Vec    `json:"up,omitempty" yaml:"up,omitempty"`
	FOV      float64 `json:"fov,omitempty" yaml:"fov,omitempty"`
	Near     float64 `json:"near,omitempty" yaml:"near,omitempty"`
	Far      float64 `json:"far,omitempty" yaml:"far,omitempty"`
	Fit      bool    `json:"fit,omitempty" yaml:"fit,omitempty"`
}

// LightEntry describes one light
type LightEntry struct {
	Kind      string   `json:"kind" yaml:"kind"`
	Position  *Vec     `json:"position,omitempty" yaml:"position,omitempty"`
	Direction *Vec     `json:"direction,omitempty" yaml:"direction,omitempty"`
	Color     string   `json:"color,omitempty" yaml:"color,omitempty"`
	Intensity *float64 `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	Angle     float64  `json:"angle,omitempty" yaml:"angle,omitempty"`
}

// MaterialEntry overrides the default material of a shape kind
type MaterialEntry struct {
	Color        string   `json:"color,omitempty" yaml:"color,omitempty"`
	Opacity      *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Wireframe    bool     `json:"wireframe,omitempty" yaml:"wireframe,omitempty"`
	Shininess    *float64 `json:"shininess,omitempty" yaml:"shininess,omitempty"`
	Reflectivity *float64 `json:"reflectivity,omitempty" yaml:"reflectivity,omitempty"`
}

// TransformEntry is the initial pose of a shape
type TransformEntry struct {
	Translation *Vec `json:"translation,omitempty" yaml:"translation,omitempty"`
	Rotation    *Vec `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Scale       *Vec `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// ShapeEntry describes one shape. Which fields apply depends on Kind.
type ShapeEntry struct {
	ID       string  `json:"id,omitempty" yaml:"id,omitempty"`
	Kind     string  `json:"kind" yaml:"kind"`
	Center   *Vec    `json:"center,omitempty" yaml:"center,omitempty"`
	Size     float64 `json:"size,omitempty" yaml:"size,omitempty"`
	Radius   float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Height   float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Width    float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Depth    float64 `json:"depth,omitempty" yaml:"depth,omitempty"`
	Segments int     `json:"segments,omitempty" yaml:"segments,omitempty"`
	Base     []Vec   `json:"base,omitempty" yaml:"base,omitempty"`
	Apex     *Vec    `json:"apex,omitempty" yaml:"apex,omitempty"`
	From     *Vec    `json:"from,omitempty" yaml:"from,omitempty"`
	To       *Vec    `json:"to,omitempty" yaml:"to,omitempty"`
	Vertices []Vec   `json:"vertices,omitempty" yaml:"vertices,omitempty"`
	Faces    [][]int `json:"faces,omitempty" yaml:"faces,omitempty"`
	File     string  `json:"file,omitempty" yaml:"file,omitempty"`

	Material  *MaterialEntry  `json:"material,omitempty" yaml:"material,omitempty"`
	Transform *TransformEntry `json:"transform,omitempty" yaml:"transform,omitempty"`
}

// AnimationEntry animates one transform property of a shape. Without From
// the animation starts at the shape's pose when the scene is built.
type AnimationEntry struct {
	Shape    string   `json:"shape" yaml:"shape"`
	Property string   `json:"property" yaml:"property"`
	From     *Vec     `json:"from,omitempty" yaml:"from,omitempty"`
	To       Vec      `json:"to" yaml:"to"`
	Duration Duration `json:"duration" yaml:"duration"`
	Easing   string   `json:"easing,omitempty" yaml:"easing,omitempty"`
}

// Document is a parsed scene file
type Document struct {
	Viewport   *ViewportEntry   `json:"viewport,omitempty" yaml:"viewport,omitempty"`
	Camera     *CameraEntry     `json:"camera,omitempty" yaml:"camera,omitempty"`
	Lights     []LightEntry     `json:"lights,omitempty" yaml:"lights,omitempty"`
	Shapes     []ShapeEntry     `json:"shapes" yaml:"shapes"`
	Animations []AnimationEntry `json:"animations,omitempty" yaml:"animations,omitempty"`

	// dir resolves relative mesh file paths
	dir string
}

// Load decodes a scene document. Relative mesh files resolve against the
// working directory.
func Load(r io.Reader, format Format) (*Document, error) {
	var d Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode json scene: %w", err)
		}
	case FormatYAML, "":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml scene: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown scene format %q", format)
	}
	return &d, nil
}

// LoadFile reads a scene file, picking the format by extension
func LoadFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene: %w", err)
	}
	defer file.Close()

	d, err := Load(file, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.dir = filepath.Dir(path)
	return d, nil
}

// SetBaseDir sets the directory relative mesh files are resolved against
func (d *Document) SetBaseDir(dir string) {
	d.dir = dir
}

// resolve returns a mesh file path relative to the document
func (d *Document) resolve(file string) string {
	if filepath.IsAbs(file) || d.dir == "" {
		return file
	}
	return filepath.Join(d.dir, file)
}

// Dependencies lists the mesh files the document reads, in shape order and
// without duplicates
func (d *Document) Dependencies() []string {
	seen := make(map[string]bool)
	var deps []string
	for _, s := range d.Shapes {
		if s.File == "" {
			continue
		}
		path := d.resolve(s.File)
		if seen[path] {
			continue
		}
		seen[path] = true
		deps = append(deps, path)
	}
	return deps
}
