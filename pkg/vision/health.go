package vision

import (
	"gocv.io/x/gocv"
)

// The HP bar reads red at low health. Red hue wraps around the HSV circle,
// so the mask is the union of two bands.
var (
	redLow1  = gocv.NewScalar(0, 100, 100, 0)
	redHigh1 = gocv.NewScalar(10, 255, 255, 0)
	redLow2  = gocv.NewScalar(170, 100, 100, 0)
	redHigh2 = gocv.NewScalar(180, 255, 255, 0)
)

// hpTemplateFallbacks pairs each HP bar template with the urgency and default
// percentage it implies when the mask path was inconclusive.
var hpTemplateFallbacks = []struct {
	key        string
	urgency    Urgency
	defaultPct float64
}{
	{TemplateHPRed, UrgencyCritical, 20},
	{TemplateHPYellow, UrgencyLow, 50},
	{TemplateHPGreen, UrgencyHigh, 90},
}

// analyzeHealth estimates remaining health from the HP bar region.
//
// Primary signal: the filled width of the red mask's largest contour as a
// fraction of the region width. Secondary: template correlation against the
// per-urgency reference bars, used only when the mask found nothing.
func (e *Engine) analyzeHealth(img gocv.Mat) (*float64, Urgency) {
	region, _, ok := e.crop(img, RegionHPBar)
	if !ok {
		return nil, UrgencyUnknown
	}
	defer region.Close()

	pct, urgency := e.healthFromMask(region)
	if pct == nil {
		if tPct, tUrg := e.healthFromTemplates(region); tPct != nil {
			return tPct, tUrg
		}
	}
	return pct, urgency
}

func (e *Engine) healthFromMask(region gocv.Mat) (*float64, Urgency) {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(region, &hsv, gocv.ColorBGRToHSV)

	mask1 := gocv.NewMat()
	defer mask1.Close()
	mask2 := gocv.NewMat()
	defer mask2.Close()
	gocv.InRangeWithScalar(hsv, redLow1, redHigh1, &mask1)
	gocv.InRangeWithScalar(hsv, redLow2, redHigh2, &mask2)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.BitwiseOr(mask1, mask2, &mask)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	bestIdx := -1
	bestArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > bestArea {
			bestArea = area
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestArea < e.cfg.MinHPArea {
		return nil, UrgencyUnknown
	}

	bbox := gocv.BoundingRect(contours.At(bestIdx))
	pct := float64(bbox.Dx()) / float64(region.Cols()) * 100
	pct = clampPercent(pct)
	return &pct, UrgencyFor(pct)
}

func (e *Engine) healthFromTemplates(region gocv.Mat) (*float64, Urgency) {
	for _, fb := range hpTemplateFallbacks {
		tmpl, ok := e.templates.Get(fb.key)
		if !ok {
			continue
		}
		score, _, ok := bestMatch(region, tmpl)
		if !ok {
			continue
		}
		if score > e.cfg.HPTemplateThresh {
			pct := fb.defaultPct
			return &pct, fb.urgency
		}
	}
	return nil, UrgencyUnknown
}

func clampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
