// Package detect implements the flood detection service: heuristic computer
// vision analysis of a scene image combined with social media sentiment for
// the reported location.
package detect

import (
	"image"
	"math"
)

// imageFeatures are the per-image measurements feeding the flood probability
// model. All values are normalized to [0, 1].
type imageFeatures struct {
	avgBrightness  float64
	blueRatio      float64
	waterLikeRatio float64
	edgeDensity    float64

	textureComplexity    float64
	reflectionScore      float64
	colorDistribution    float64
	horizontalLineRatio  float64
	verticalGradient     float64
	saturationLevel      float64
	contrastLevel        float64
	wavePatternScore     float64
	surfaceRippleScore   float64
	depthPerceptionScore float64
}

// analyzeImage measures every feature in one pass over the (sparsely sampled)
// pixel grid. Sampling strides keep the analysis fast on phone-sized photos.
func analyzeImage(img image.Image) imageFeatures {
	return imageFeatures{
		avgBrightness:  averageBrightness(img),
		blueRatio:      blueRatio(img),
		waterLikeRatio: waterLikeRatio(img),
		edgeDensity:    edgeDensity(img),

		textureComplexity:    textureComplexity(img),
		reflectionScore:      reflectionScore(img),
		colorDistribution:    colorDistributionEntropy(img),
		horizontalLineRatio:  horizontalLineRatio(img),
		verticalGradient:     verticalGradient(img),
		saturationLevel:      saturationLevel(img),
		contrastLevel:        contrastLevel(img),
		wavePatternScore:     wavePatternScore(img),
		surfaceRippleScore:   surfaceRippleScore(img),
		depthPerceptionScore: depthPerception(img),
	}
}

// rgb8 returns the 8-bit color channels at (x, y) in image coordinates
// relative to the image bounds origin.
func rgb8(img image.Image, x, y int) (int, int, int) {
	b := img.Bounds()
	r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return int(r >> 8), int(g >> 8), int(bl >> 8)
}

func luminance(r, g, b int) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

func averageBrightness(img image.Image) float64 {
	var total float64
	var count int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y += 10 {
			r, g, b := rgb8(img, x, y)
			total += luminance(r, g, b) / 255.0
			count++
		}
	}
	if count == 0 {
		return 0.5
	}
	return total / float64(count)
}

func blueRatio(img image.Image) float64 {
	var total float64
	var count int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y += 10 {
			_, _, b := rgb8(img, x, y)
			total += float64(b)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / (float64(count) * 255.0)
}

func waterLikeRatio(img image.Image) float64 {
	var waterLike, count int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y += 10 {
			r, g, b := rgb8(img, x, y)
			if isWaterLikeColor(r, g, b) {
				waterLike++
			}
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(waterLike) / float64(count)
}

// isWaterLikeColor matches the color classes seen in coastal water scenes:
// open sea blues, cyans, teals, deep and shallow water, overcast gray-blue,
// algae green-blue, murky storm water, and the silvery sheen of high tide.
func isWaterLikeColor(r, g, b int) bool {
	switch {
	case b > r && b > g && b > 60: // blue dominant
		return true
	case b > 50 && g > 50 && r < min(b, g)-10: // cyan
		return true
	case b > 40 && g > 40 && abs(b-g) < 50 && r < min(b, g): // teal
		return true
	case b > 40 && r < 60 && g < 60: // dark blue, deep water
		return true
	case b > 80 && r < 100 && g < 140 && b > r+10: // light azure, shallow water
		return true
	case b > 40 && abs(r-g) < 30 && abs(g-b) < 30 && b > r: // gray-blue, overcast
		return true
	case g > 40 && b > 40 && r < min(g, b)-5 && abs(g-b) < 40: // green-blue, algae
		return true
	case b > 30 && g > 30 && r < 50 && abs(b-g) < 20: // dark murky storm water
		return true
	case b > 50 && g > 50 && r > 40 && abs(b-g) < 15 && abs(g-r) < 15: // silvery high tide
		return true
	case b > r+20 && b > g+20: // any blue dominance
		return true
	}
	return false
}

func edgeDensity(img image.Image) float64 {
	var edges, count int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for x := 5; x < w-5; x += 5 {
		for y := 5; y < h-5; y += 5 {
			if isEdgePixel(img, x, y) {
				edges++
			}
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(edges) / float64(count)
}

var neighborOffsets = [...]int{-2, -1, 1, 2}

func isEdgePixel(img image.Image, x, y int) bool {
	center := luminance(rgb8(img, x, y))
	for _, dx := range neighborOffsets {
		for _, dy := range neighborOffsets {
			neighbor := luminance(rgb8(img, x+dx, y+dy))
			if math.Abs(center-neighbor) > 30 {
				return true
			}
		}
	}
	return false
}

func textureComplexity(img image.Image) float64 {
	var complexity, count int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for x := 3; x < w-3; x += 3 {
		for y := 3; y < h-3; y += 3 {
			center := luminance(rgb8(img, x, y))
			for _, dx := range neighborOffsets {
				for _, dy := range neighborOffsets {
					neighbor := luminance(rgb8(img, x+dx, y+dy))
					if math.Abs(center-neighbor) > 20 {
						complexity++
					}
				}
			}
			count++
		}
	}
	if count == 0 {
		return 0
	}
	// 16 neighbor comparisons per sample; normalize against half of them so
	// a moderately busy scene already registers as textured.
	return float64(complexity) / (float64(count) * 8.0)
}

// reflectionScore measures left-right color symmetry. Standing water mirrors
// the scene, so flooded frames tend to be more symmetric.
func reflectionScore(img image.Image) float64 {
	var total float64
	var count int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for y := 0; y < h; y += 5 {
		for x := 0; x < w/2; x += 5 {
			lr, lg, lb := rgb8(img, x, y)
			rr, rg, rb := rgb8(img, w-1-x, y)
			total += colorSimilarity(lr, lg, lb, rr, rg, rb)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// colorDistributionEntropy quantizes colors to 4 levels per channel and
// returns the normalized Shannon entropy of the resulting histogram.
func colorDistributionEntropy(img image.Image) float64 {
	counts := make(map[int]int)
	var total int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for x := 0; x < w; x += 5 {
		for y := 0; y < h; y += 5 {
			r, g, b := rgb8(img, x, y)
			key := (r/64)<<16 | (g/64)<<8 | b/64
			counts[key]++
			total++
		}
	}
	if total == 0 {
		return 0
	}
	var entropy float64
	for _, c := range counts {
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return math.Min(1.0, entropy/8.0)
}

func horizontalLineRatio(img image.Image) float64 {
	var lines, count int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for y := 2; y < h-2; y += 3 {
		for x := 2; x < w-2; x += 3 {
			cr, cg, cb := rgb8(img, x, y)
			lr, lg, lb := rgb8(img, x-1, y)
			rr, rg, rb := rgb8(img, x+1, y)
			if colorSimilarity(cr, cg, cb, lr, lg, lb) > 0.8 &&
				colorSimilarity(cr, cg, cb, rr, rg, rb) > 0.8 {
				lines++
			}
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(lines) / float64(count)
}

func verticalGradient(img image.Image) float64 {
	var total float64
	var count int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for x := 0; x < w; x += 5 {
		for y := 2; y < h-2; y += 5 {
			top := luminance(rgb8(img, x, y-1))
			center := luminance(rgb8(img, x, y))
			bottom := luminance(rgb8(img, x, y+1))
			total += math.Abs(center-top) + math.Abs(center-bottom)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Min(1.0, total/(float64(count)*100.0))
}

func saturationLevel(img image.Image) float64 {
	var total float64
	var count int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for x := 0; x < w; x += 4 {
		for y := 0; y < h; y += 4 {
			r, g, b := rgb8(img, x, y)
			total += saturation(r, g, b)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func saturation(r, g, b int) float64 {
	hi := max(r, max(g, b))
	lo := min(r, min(g, b))
	if hi == 0 {
		return 0
	}
	return float64(hi-lo) / float64(hi)
}

func contrastLevel(img image.Image) float64 {
	lo, hi := 255.0, 0.0
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for x := 0; x < w; x += 3 {
		for y := 0; y < h; y += 3 {
			l := luminance(rgb8(img, x, y))
			lo = math.Min(lo, l)
			hi = math.Max(hi, l)
		}
	}
	if hi < lo {
		return 0
	}
	return (hi - lo) / 255.0
}

// wavePatternScore samples short horizontal runs and counts how many show an
// alternating brightness profile.
func wavePatternScore(img image.Image) float64 {
	var waves, count int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for y := 3; y < h-3; y += 4 {
		for x := 3; x < w-6; x += 4 {
			var run [6]float64
			for i := range run {
				run[i] = luminance(rgb8(img, x+i, y))
			}
			if isWavePattern(run[:]) {
				waves++
			}
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(waves) / float64(count)
}

// isWavePattern reports whether a brightness run alternates direction with at
// least one significant swing.
func isWavePattern(run []float64) bool {
	if len(run) < 4 {
		return false
	}
	var changes, significant int
	increasing := run[1] > run[0]
	for i := 1; i < len(run)-1; i++ {
		now := run[i+1] > run[i]
		if now != increasing {
			changes++
			if math.Abs(run[i+1]-run[i]) > 15 {
				significant++
			}
			increasing = now
		}
	}
	return changes >= 1 && significant >= 1
}

// surfaceRippleScore looks for small radial brightness falloffs around a
// center pixel, the signature of ripples on a water surface.
func surfaceRippleScore(img image.Image) float64 {
	var ripples, count int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for x := 5; x < w-5; x += 6 {
		for y := 5; y < h-5; y += 6 {
			if isRipple(img, x, y) {
				ripples++
			}
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(ripples) / float64(count)
}

func isRipple(img image.Image, x, y int) bool {
	center := luminance(rgb8(img, x, y))
	for _, dx := range neighborOffsets {
		for _, dy := range neighborOffsets {
			neighbor := luminance(rgb8(img, x+dx, y+dy))
			distance := math.Sqrt(float64(dx*dx + dy*dy))
			expected := center + distance*10
			if math.Abs(neighbor-expected) > 15 {
				return false
			}
		}
	}
	return true
}

// depthPerception scores top-to-bottom blue intensity gradients. Water depth
// shows up as blue deepening toward the bottom of the frame.
func depthPerception(img image.Image) float64 {
	var score float64
	var count int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for x := 0; x < w; x += 4 {
		for y := 2; y < h-2; y += 4 {
			_, _, topB := rgb8(img, x, y-1)
			_, _, centerB := rgb8(img, x, y)
			_, _, bottomB := rgb8(img, x, y+1)
			top, center, bottom := float64(topB)/255, float64(centerB)/255, float64(bottomB)/255
			switch {
			case bottom > center && center > top:
				score += 1.0
			case math.Abs(bottom-top) > 0.1:
				score += 0.5
			}
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Min(1.0, score/float64(count))
}

// maxRGBDistance is the diagonal of the RGB cube, sqrt(3*255^2).
const maxRGBDistance = 441.67

func colorSimilarity(r1, g1, b1, r2, g2, b2 int) float64 {
	dr, dg, db := float64(r1-r2), float64(g1-g2), float64(b1-b2)
	distance := math.Sqrt(dr*dr + dg*dg + db*db)
	return math.Max(0, 1.0-distance/maxRGBDistance)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
