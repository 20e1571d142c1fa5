package vision

import (
	"math"
	"sort"

	"gocv.io/x/gocv"
)

// enemyTemplateKeys are the signatures swept over the center crop, in order.
var enemyTemplateKeys = []string{TemplateEnemyHead, TemplateEnemyScope}

// detectEnemies correlates every enemy signature template across the center
// region, collects all candidates above threshold, and collapses duplicates
// with greedy non-maximum suppression.
func (e *Engine) detectEnemies(img gocv.Mat) []Enemy {
	region, rect, ok := e.crop(img, RegionCenter)
	if !ok {
		return nil
	}
	defer region.Close()

	cropW := float64(region.Cols())
	cropH := float64(region.Rows())

	var candidates []Enemy
	for _, key := range enemyTemplateKeys {
		tmpl, found := e.templates.Get(key)
		if !found {
			continue
		}
		scores, fits := matchTemplate(region, tmpl)
		if !fits {
			continue
		}

		tw := float64(tmpl.Cols())
		th := float64(tmpl.Rows())
		for y := 0; y < scores.Rows(); y++ {
			for x := 0; x < scores.Cols(); x++ {
				score := scores.GetFloatAt(y, x)
				if score < e.cfg.EnemyMatchThresh {
					continue
				}

				relX := (float64(x) + tw/2) / cropW
				relY := (float64(y) + th/2) / cropH
				candidates = append(candidates, Enemy{
					X:          x + rect.Min.X,
					Y:          y + rect.Min.Y,
					Direction:  BearingFor(relX, relY),
					Distance:   DistanceFor(relY),
					Confidence: float64(score),
				})
			}
		}
		scores.Close()
	}

	return Suppress(candidates, e.cfg.NMSRadius)
}

// Suppress applies greedy non-maximum suppression: candidates are taken in
// descending confidence order and any remaining candidate within radius
// pixels of an already-kept one is discarded.
func Suppress(candidates []Enemy, radius float64) []Enemy {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]Enemy, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	var kept []Enemy
	for _, cand := range sorted {
		tooClose := false
		for _, k := range kept {
			dx := float64(cand.X - k.X)
			dy := float64(cand.Y - k.Y)
			if math.Hypot(dx, dy) < radius {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, cand)
		}
	}
	return kept
}
