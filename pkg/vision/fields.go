package vision

import (
	"gocv.io/x/gocv"
)

// readCounter reads a digit counter (ammo, kills) from a named region.
// The crop is binarized at the given intensity before handing it to the
// text recognizer; anything but a clean digit run yields nil.
func (e *Engine) readCounter(img gocv.Mat, regionName string, threshold float32) *int {
	text, ok := e.readText(img, regionName, threshold, CharsetCounter)
	if !ok {
		return nil
	}
	return parseCount(text)
}

// readTimer reads the match timer. The raw trimmed string is kept so
// "2:45"-style values survive intact.
func (e *Engine) readTimer(img gocv.Mat) string {
	text, ok := e.readText(img, RegionTime, 200, CharsetTimer)
	if !ok {
		return ""
	}
	return parseTimer(text)
}

func (e *Engine) readText(img gocv.Mat, regionName string, threshold float32, charset string) (string, bool) {
	if e.ocr == nil {
		return "", false
	}

	region, _, ok := e.crop(img, regionName)
	if !ok {
		return "", false
	}
	defer region.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(region, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, threshold, 255, gocv.ThresholdBinaryInv)

	text, err := e.ocr.Recognize(binary, charset)
	if err != nil {
		e.logger.Debug("text recognition failed", "region", regionName, "error", err)
		return "", false
	}
	return text, true
}
