package vision

import (
	"fmt"
	"image"
	"os"

	"gopkg.in/yaml.v3"
)

// Well-known region names used by the engine.
const (
	RegionHPBar   = "hp_bar"
	RegionAmmo    = "ammo"
	RegionKills   = "kills"
	RegionTime    = "time"
	RegionMinimap = "minimap"
	RegionCenter  = "center"
)

// Well-known template keys used by the engine.
const (
	TemplateHPRed      = "hp_red"
	TemplateHPYellow   = "hp_yellow"
	TemplateHPGreen    = "hp_green"
	TemplateEnemyHead  = "enemy_head"
	TemplateEnemyScope = "enemy_scope"
	TemplateZoneEdge   = "zone_edge"
)

// Rect is a named screen rectangle. Coordinates are either in reference
// resolution pixels or fractional (0..1) units, per Profile.Fractional.
type Rect struct {
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
	X2 float64 `yaml:"x2"`
	Y2 float64 `yaml:"y2"`
}

// Profile is the static screen layout for one game/resolution combination:
// where each HUD element sits and which reference images identify signatures.
// Loaded once at startup.
type Profile struct {
	// Reference is the resolution the pixel-unit regions were measured at.
	Reference struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"reference"`

	// Fractional marks region coordinates as 0..1 fractions instead of
	// reference pixels.
	Fractional bool `yaml:"fractional"`

	Regions map[string]Rect `yaml:"regions"`

	// Templates maps template keys to image filenames inside TemplateDir.
	Templates map[string]string `yaml:"templates"`

	// TemplateDir is the directory holding the reference images.
	TemplateDir string `yaml:"template_dir"`
}

// DefaultProfile returns the layout for a 1080x2340 portrait device, the
// common phone aspect for mobile battle royale HUDs.
func DefaultProfile() *Profile {
	p := &Profile{
		Fractional: false,
		Regions: map[string]Rect{
			RegionHPBar:   {X1: 50, Y1: 1950, X2: 400, Y2: 2100},
			RegionAmmo:    {X1: 800, Y1: 2100, X2: 1050, Y2: 2250},
			RegionKills:   {X1: 50, Y1: 100, X2: 200, Y2: 200},
			RegionTime:    {X1: 900, Y1: 100, X2: 1050, Y2: 200},
			RegionMinimap: {X1: 850, Y1: 150, X2: 1050, Y2: 450},
			RegionCenter:  {X1: 300, Y1: 900, X2: 780, Y2: 1500},
		},
		Templates: map[string]string{
			TemplateHPRed:      "red_hp_20percent.png",
			TemplateHPYellow:   "yellow_hp_50percent.png",
			TemplateHPGreen:    "green_hp_high.png",
			TemplateEnemyHead:  "enemy_headshot.png",
			TemplateEnemyScope: "enemy_scope_glint.png",
			TemplateZoneEdge:   "zone_boundary_edge.png",
		},
		TemplateDir: "assets/templates",
	}
	p.Reference.Width = 1080
	p.Reference.Height = 2340
	return p
}

// LoadProfile reads a YAML profile file. Fields left out of the file keep
// the defaults, so a profile may override just the regions.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	p := DefaultProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// Crop scales a named region to an actual frame size and clips it to the
// frame bounds. ok is false when the region is missing or degenerate.
func (p *Profile) Crop(name string, frameW, frameH int) (image.Rectangle, bool) {
	r, found := p.Regions[name]
	if !found || frameW <= 0 || frameH <= 0 {
		return image.Rectangle{}, false
	}

	var rect image.Rectangle
	if p.Fractional {
		rect = image.Rect(
			int(r.X1*float64(frameW)), int(r.Y1*float64(frameH)),
			int(r.X2*float64(frameW)), int(r.Y2*float64(frameH)),
		)
	} else {
		sx := float64(frameW) / float64(p.Reference.Width)
		sy := float64(frameH) / float64(p.Reference.Height)
		rect = image.Rect(
			int(r.X1*sx), int(r.Y1*sy),
			int(r.X2*sx), int(r.Y2*sy),
		)
	}

	rect = rect.Intersect(image.Rect(0, 0, frameW, frameH))
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return image.Rectangle{}, false
	}
	return rect, true
}
