package vision

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/callout-gg/callout/internal/log"
	"github.com/callout-gg/callout/pkg/frame"
)

// Config holds the engine's detection thresholds.
type Config struct {
	// EnemyMatchThresh is the minimum template correlation for an enemy
	// signature candidate.
	EnemyMatchThresh float32

	// ZoneMatchThresh is the minimum correlation for the hazard boundary.
	ZoneMatchThresh float32

	// HPTemplateThresh is the minimum correlation for the HP bar template
	// fallback.
	HPTemplateThresh float32

	// MinHPArea rejects mask contours below this pixel area as noise.
	MinHPArea float64

	// NMSRadius is the suppression radius in pixels: of two detections
	// closer than this, only the higher-confidence one survives.
	NMSRadius float64
}

// DefaultConfig returns production thresholds.
func DefaultConfig() Config {
	return Config{
		EnemyMatchThresh: 0.8,
		ZoneMatchThresh:  0.7,
		HPTemplateThresh: 0.8,
		MinHPArea:        5000,
		NMSRadius:        50,
	}
}

// Recorder receives each successfully analyzed snapshot.
// The stats aggregator implements this.
type Recorder interface {
	Record(State)
}

// Engine analyzes frames into State snapshots.
type Engine struct {
	profile   *Profile
	templates *TemplateSet
	ocr       Recognizer // nil disables the text fields
	recorder  Recorder   // nil disables history recording
	cfg       Config

	mu     sync.Mutex // one inference at a time
	logger *slog.Logger
}

// NewEngine creates an engine. ocr and recorder may be nil; the matching
// fields then degrade per the error taxonomy.
func NewEngine(profile *Profile, templates *TemplateSet, ocr Recognizer, cfg Config) *Engine {
	if profile == nil {
		profile = DefaultProfile()
	}
	if templates == nil {
		templates = &TemplateSet{mats: map[string]gocv.Mat{}}
	}
	return &Engine{
		profile:   profile,
		templates: templates,
		ocr:       ocr,
		cfg:       cfg,
		logger:    log.Component("vision.engine"),
	}
}

// SetRecorder attaches the snapshot recorder. Called once at pipeline wiring.
func (e *Engine) SetRecorder(r Recorder) {
	e.recorder = r
}

// Analyze runs every sub-analysis over one frame and returns the composed
// snapshot. Sub-analyses fail independently into empty fields; a frame-level
// panic is recovered into an all-unknown snapshot. Analyze never returns an
// error.
func (e *Engine) Analyze(f *frame.Frame) (state State) {
	ts := time.Now()
	if f != nil {
		ts = f.Timestamp
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("frame analysis panicked", "panic", r)
			state = Unknown(ts)
		}
	}()

	if f == nil || len(f.JPEG) == 0 {
		return Unknown(ts)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	img, err := gocv.IMDecode(f.JPEG, gocv.IMReadColor)
	if err != nil || img.Empty() {
		e.logger.Warn("frame decode failed", "error", err)
		return Unknown(ts)
	}
	defer img.Close()

	state = State{
		HPUrgency: UrgencyUnknown,
		Timestamp: ts,
	}

	state.HPPercent, state.HPUrgency = e.analyzeHealth(img)
	state.AmmoCount = e.readCounter(img, RegionAmmo, 150)
	state.Kills = e.readCounter(img, RegionKills, 200)
	state.TimeRemaining = e.readTimer(img)
	state.Enemies = e.detectEnemies(img)
	state.Zone = e.analyzeZone(img)

	if e.recorder != nil {
		e.recorder.Record(state)
	}
	return state
}

// crop returns a view of a named region, scaled to the frame.
// ok is false when the region is unusable.
func (e *Engine) crop(img gocv.Mat, name string) (gocv.Mat, image.Rectangle, bool) {
	rect, ok := e.profile.Crop(name, img.Cols(), img.Rows())
	if !ok {
		return gocv.Mat{}, image.Rectangle{}, false
	}
	return img.Region(rect), rect, true
}

// matchTemplate runs normalized cross-correlation of tmpl over img and
// returns the full score map. ok is false when the template cannot fit.
func matchTemplate(img, tmpl gocv.Mat) (gocv.Mat, bool) {
	if tmpl.Cols() > img.Cols() || tmpl.Rows() > img.Rows() {
		return gocv.Mat{}, false
	}
	result := gocv.NewMat()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(img, tmpl, &result, gocv.TmCcoeffNormed, mask)
	return result, true
}

// bestMatch returns the peak correlation score and its location.
func bestMatch(img, tmpl gocv.Mat) (float32, image.Point, bool) {
	result, ok := matchTemplate(img, tmpl)
	if !ok {
		return 0, image.Point{}, false
	}
	defer result.Close()
	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)
	return maxVal, maxLoc, true
}
