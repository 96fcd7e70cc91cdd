package detect

import "math"

// floodProbability turns the measured features into a flooded-scene
// probability in [0.01, 0.99]. The layers are weighted so water color
// dominates, with surface character, tide-specific features, edge structure,
// and lighting filling out the score.
func floodProbability(f imageFeatures) float64 {
	score := colorScore(f)*0.35 +
		surfaceScore(f)*0.25 +
		highTideScore(f)*0.20 +
		edgeScore(f)*0.15 +
		lightingScore(f)*0.05

	score *= imageQuality(f)

	if isHighTideScenario(f) {
		score = math.Min(0.95, score*1.2)
	}

	return math.Max(0.01, math.Min(0.99, score))
}

// isHighTideScenario counts independent water indicators; four or more of
// them mark the frame as a likely high tide scene.
func isHighTideScenario(f imageFeatures) bool {
	indicators := 0
	if f.blueRatio > 0.3 {
		indicators++
	}
	if f.waterLikeRatio > 0.4 {
		indicators++
	}
	if f.textureComplexity < 0.5 {
		indicators++
	}
	if f.edgeDensity < 0.3 {
		indicators++
	}
	if f.wavePatternScore > 0.2 {
		indicators++
	}
	if f.surfaceRippleScore > 0.2 {
		indicators++
	}
	if f.reflectionScore > 0.3 {
		indicators++
	}
	return indicators >= 4
}

func colorScore(f imageFeatures) float64 {
	var score float64

	switch {
	case f.blueRatio > 0.4:
		score += 0.6
	case f.blueRatio > 0.25:
		score += 0.5
	case f.blueRatio > 0.15:
		score += 0.4
	case f.blueRatio > 0.08:
		score += 0.3
	case f.blueRatio > 0.03:
		score += 0.2
	}

	switch {
	case f.waterLikeRatio > 0.6:
		score += 0.4
	case f.waterLikeRatio > 0.4:
		score += 0.35
	case f.waterLikeRatio > 0.25:
		score += 0.3
	case f.waterLikeRatio > 0.15:
		score += 0.25
	case f.waterLikeRatio > 0.08:
		score += 0.2
	}

	// Water sits in a broad middle band of saturation.
	if f.saturationLevel > 0.1 && f.saturationLevel < 0.95 {
		score += 0.2
	}

	return math.Min(1.0, score)
}

func surfaceScore(f imageFeatures) float64 {
	var score float64

	switch {
	case f.textureComplexity < 0.2:
		score += 0.4
	case f.textureComplexity < 0.4:
		score += 0.3
	case f.textureComplexity < 0.6:
		score += 0.2
	}

	switch {
	case f.edgeDensity < 0.05:
		score += 0.4
	case f.edgeDensity < 0.15:
		score += 0.3
	case f.edgeDensity < 0.25:
		score += 0.2
	}

	switch {
	case f.wavePatternScore > 0.7:
		score += 0.2
	case f.wavePatternScore > 0.5:
		score += 0.15
	case f.wavePatternScore > 0.3:
		score += 0.1
	}

	return math.Min(1.0, score)
}

func highTideScore(f imageFeatures) float64 {
	var score float64

	switch {
	case f.surfaceRippleScore > 0.8:
		score += 0.4
	case f.surfaceRippleScore > 0.6:
		score += 0.3
	case f.surfaceRippleScore > 0.4:
		score += 0.2
	}

	switch {
	case f.depthPerceptionScore > 0.7:
		score += 0.3
	case f.depthPerceptionScore > 0.5:
		score += 0.2
	case f.depthPerceptionScore > 0.3:
		score += 0.1
	}

	switch {
	case f.horizontalLineRatio > 0.6:
		score += 0.3
	case f.horizontalLineRatio > 0.4:
		score += 0.2
	case f.horizontalLineRatio > 0.2:
		score += 0.1
	}

	return math.Min(1.0, score)
}

func edgeScore(f imageFeatures) float64 {
	var score float64

	switch {
	case f.verticalGradient > 0.5:
		score += 0.4
	case f.verticalGradient > 0.3:
		score += 0.3
	case f.verticalGradient > 0.15:
		score += 0.2
	}

	switch {
	case f.colorDistribution > 0.7:
		score += 0.3
	case f.colorDistribution > 0.5:
		score += 0.2
	case f.colorDistribution > 0.3:
		score += 0.1
	}

	if f.contrastLevel > 0.3 && f.contrastLevel < 0.8 {
		score += 0.3
	} else if f.contrastLevel > 0.2 {
		score += 0.2
	}

	return math.Min(1.0, score)
}

func lightingScore(f imageFeatures) float64 {
	var score float64

	if f.reflectionScore > 0.6 {
		score += 0.6
	} else if f.reflectionScore > 0.4 {
		score += 0.4
	}

	if f.avgBrightness > 0.3 && f.avgBrightness < 0.8 {
		score += 0.4
	}

	return math.Min(1.0, score)
}

// imageQuality discounts the flood score for washed-out or flat frames that
// the heuristics cannot read reliably.
func imageQuality(f imageFeatures) float64 {
	quality := 0.5
	if f.contrastLevel > 0.3 {
		quality += 0.2
	}
	if f.avgBrightness > 0.2 && f.avgBrightness < 0.9 {
		quality += 0.2
	}
	if f.saturationLevel > 0.1 {
		quality += 0.1
	}
	return math.Min(1.0, quality)
}
