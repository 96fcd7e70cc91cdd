package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationKey(t *testing.T) {
	tests := []struct {
		name     string
		location string
		lat, lng float64
		want     string
	}{
		{"name match", "Marina Beach, Chennai", 0, 0, "chennai"},
		{"name match case insensitive", "MUMBAI harbor", 0, 0, "mumbai"},
		{"chennai bounding box", "Lat: 13.0827, Lng: 80.2707", 13.0827, 80.2707, "chennai"},
		{"mumbai bounding box", "Lat: 19.0760, Lng: 72.8777", 19.0760, 72.8777, "mumbai"},
		{"kolkata bounding box", "Lat: 22.5726, Lng: 88.3639", 22.5726, 88.3639, "kolkata"},
		{"unknown region", "Lat: 51.5074, Lng: -0.1278", 51.5074, -0.1278, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, locationKey(tt.location, tt.lat, tt.lng))
		})
	}
}

func TestAnalyzeSocialMedia_KnownCity(t *testing.T) {
	got := analyzeSocialMedia(13.0827, 80.2707, "Lat: 13.0827, Lng: 80.2707")

	assert.Equal(t, "chennai", got.LocationKey)
	assert.Equal(t, 45, got.PostCount)
	assert.Equal(t, 120, got.MentionCount)

	// sentiment 0.7*0.6 + volume 0.9*0.2 + mentions 1.0*0.2
	assert.InDelta(t, 0.80, got.SentimentScore, 0.001)
	// confidence 0.3*0.4 + volume 1.0*0.3 + mentions 1.0*0.3
	assert.InDelta(t, 0.72, got.Confidence, 0.001)

	assert.Len(t, got.RelevantKeywords, 5, "120 mentions cap out the keyword list")
	assert.Equal(t, "flood", got.RelevantKeywords[0], "highest-relevance keyword first")
}

func TestAnalyzeSocialMedia_UnknownFallsBackToDefault(t *testing.T) {
	got := analyzeSocialMedia(51.5074, -0.1278, "Lat: 51.5074, Lng: -0.1278")

	assert.Equal(t, "default", got.LocationKey)
	assert.Equal(t, 15, got.PostCount)
	assert.Len(t, got.RelevantKeywords, 1, "30 mentions yield a single keyword")
}

func TestKeywordRelevance_Ordering(t *testing.T) {
	assert.Greater(t, keywordRelevance("flood"), keywordRelevance("cyclone"))
	assert.Greater(t, keywordRelevance("cyclone"), keywordRelevance("tsunami"))
	assert.Greater(t, keywordRelevance("alert"), keywordRelevance("caution"))
}
