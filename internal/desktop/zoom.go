package desktop

import (
	"math"
	"strconv"
)

// Zoom follows Chromium: every level scales by 1.2.
const (
	zoomStep     = 1.2
	minZoomLevel = -3
	maxZoomLevel = 5
)

func clampZoom(level int) int {
	return max(minZoomLevel, min(maxZoomLevel, level))
}

func zoomFactor(level int) float64 {
	return math.Pow(zoomStep, float64(clampZoom(level)))
}

func zoomJS(level int) string {
	factor := strconv.FormatFloat(zoomFactor(level), 'f', 4, 64)
	return "document.documentElement.style.zoom = '" + factor + "';"
}
