package vision

import (
	"image"
	"image/color"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/callout-gg/callout/pkg/frame"
)

// testProfile matches the synthetic 1000x300 frames built below, so region
// crops need no scaling.
func testProfile() *Profile {
	p := &Profile{
		Regions: map[string]Rect{
			RegionHPBar: {X1: 0, Y1: 0, X2: 1000, Y2: 200},
			RegionAmmo:  {X1: 0, Y1: 200, X2: 500, Y2: 300},
		},
	}
	p.Reference.Width = 1000
	p.Reference.Height = 300
	return p
}

// redBarFrame paints a solid red block covering the given fraction of the
// HP region width on a black 1000x300 canvas.
func redBarFrame(t *testing.T, widthFraction float64) *frame.Frame {
	t.Helper()

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 300, 1000, gocv.MatTypeCV8UC3)
	defer img.Close()

	barWidth := int(widthFraction * 1000)
	gocv.Rectangle(&img, image.Rect(0, 0, barWidth, 200), color.RGBA{R: 255}, -1)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		t.Fatalf("IMEncode: %v", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return &frame.Frame{JPEG: data, Width: 1000, Height: 300, Timestamp: time.Now()}
}

type captureRecorder struct {
	states []State
}

func (c *captureRecorder) Record(s State) {
	c.states = append(c.states, s)
}

func TestHealthFromMask_PercentFromRegionWidth(t *testing.T) {
	e := NewEngine(testProfile(), nil, nil, DefaultConfig())

	// 150 of 1000 region columns filled red.
	region := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 200, 1000, gocv.MatTypeCV8UC3)
	defer region.Close()
	gocv.Rectangle(&region, image.Rect(0, 0, 150, 200), color.RGBA{R: 255}, -1)

	pct, urgency := e.healthFromMask(region)
	if pct == nil {
		t.Fatal("expected a health reading, got nil")
	}
	if *pct != 15.0 {
		t.Errorf("hp percent = %v, want 15.0", *pct)
	}
	if urgency != UrgencyCritical {
		t.Errorf("urgency = %v, want %v", urgency, UrgencyCritical)
	}
}

func TestHealthFromMask_SmallBlobRejected(t *testing.T) {
	e := NewEngine(testProfile(), nil, nil, DefaultConfig())

	// A 20x20 red speck is below the area floor.
	region := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 200, 1000, gocv.MatTypeCV8UC3)
	defer region.Close()
	gocv.Rectangle(&region, image.Rect(0, 0, 20, 20), color.RGBA{R: 255}, -1)

	pct, urgency := e.healthFromMask(region)
	if pct != nil {
		t.Errorf("hp percent = %v, want nil for sub-floor blob", *pct)
	}
	if urgency != UrgencyUnknown {
		t.Errorf("urgency = %v, want %v", urgency, UrgencyUnknown)
	}
}

func TestAnalyze_RedBarFrame(t *testing.T) {
	rec := &captureRecorder{}
	e := NewEngine(testProfile(), nil, nil, DefaultConfig())
	e.SetRecorder(rec)

	state := e.Analyze(redBarFrame(t, 0.15))

	if state.HPPercent == nil {
		t.Fatal("expected a health reading, got nil")
	}
	// JPEG edge artifacts can shift the bounding box by a pixel or two.
	if *state.HPPercent < 13 || *state.HPPercent > 17 {
		t.Errorf("hp percent = %v, want ~15", *state.HPPercent)
	}
	if state.HPUrgency != UrgencyCritical {
		t.Errorf("urgency = %v, want %v", state.HPUrgency, UrgencyCritical)
	}

	// No recognizer and no templates: text fields absent, no detections.
	if state.AmmoCount != nil {
		t.Errorf("ammo = %v, want nil without a recognizer", *state.AmmoCount)
	}
	if state.Kills != nil {
		t.Errorf("kills = %v, want nil without a recognizer", *state.Kills)
	}
	if state.TimeRemaining != "" {
		t.Errorf("time = %q, want empty", state.TimeRemaining)
	}
	if len(state.Enemies) != 0 {
		t.Errorf("enemies = %v, want none", state.Enemies)
	}
	if state.Zone.Active {
		t.Error("zone unexpectedly active")
	}

	if len(rec.states) != 1 {
		t.Fatalf("recorder got %d snapshots, want 1", len(rec.states))
	}
	if rec.states[0].HPUrgency != UrgencyCritical {
		t.Errorf("recorded urgency = %v", rec.states[0].HPUrgency)
	}
}

func TestAnalyze_UnusableFrames(t *testing.T) {
	tests := []struct {
		name string
		f    *frame.Frame
	}{
		{"nil frame", nil},
		{"empty payload", &frame.Frame{Timestamp: time.Now()}},
		{"garbage payload", &frame.Frame{JPEG: []byte("not a jpeg"), Timestamp: time.Now()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &captureRecorder{}
			e := NewEngine(testProfile(), nil, nil, DefaultConfig())
			e.SetRecorder(rec)

			state := e.Analyze(tt.f)

			if state.HPPercent != nil {
				t.Errorf("hp percent = %v, want nil", *state.HPPercent)
			}
			if state.HPUrgency != UrgencyUnknown {
				t.Errorf("urgency = %v, want %v", state.HPUrgency, UrgencyUnknown)
			}
			if state.Timestamp.IsZero() {
				t.Error("timestamp not set")
			}
			if len(rec.states) != 0 {
				t.Errorf("unusable frame recorded %d snapshots", len(rec.states))
			}
		})
	}
}

func TestAnalyze_RecoversFieldPanic(t *testing.T) {
	rec := &captureRecorder{}
	ocr := NewMockRecognizer()
	ocr.RecognizeFunc = func(img gocv.Mat, charset string) (string, error) {
		panic("recognizer blew up")
	}
	e := NewEngine(testProfile(), nil, ocr, DefaultConfig())
	e.SetRecorder(rec)

	state := e.Analyze(redBarFrame(t, 0.15))

	if state.HPUrgency != UrgencyUnknown {
		t.Errorf("urgency = %v, want all-unknown after panic", state.HPUrgency)
	}
	if state.HPPercent != nil || state.AmmoCount != nil {
		t.Error("panicked analysis leaked partial fields")
	}
	if len(rec.states) != 0 {
		t.Errorf("panicked analysis recorded %d snapshots", len(rec.states))
	}
}
