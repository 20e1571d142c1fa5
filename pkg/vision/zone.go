package vision

import (
	"gocv.io/x/gocv"
)

// analyzeZone looks for the hazard boundary on the minimap. When the edge
// template correlates above threshold, the zone is active and its bearing is
// derived from the match location with the same clock-face mapping used for
// enemies.
func (e *Engine) analyzeZone(img gocv.Mat) Zone {
	var zone Zone

	tmpl, ok := e.templates.Get(TemplateZoneEdge)
	if !ok {
		return zone
	}

	region, _, ok := e.crop(img, RegionMinimap)
	if !ok {
		return zone
	}
	defer region.Close()

	score, loc, ok := bestMatch(region, tmpl)
	if !ok || score <= e.cfg.ZoneMatchThresh {
		return zone
	}

	relX := float64(loc.X) / float64(region.Cols())
	relY := float64(loc.Y) / float64(region.Rows())

	zone.Active = true
	zone.Direction = BearingFor(relX, relY)
	return zone
}
