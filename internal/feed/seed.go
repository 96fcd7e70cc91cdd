package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/coastwatch/hazard-report-service/internal/domain"
)

// Seed is the feed fixture loaded at startup.
type Seed struct {
	Posts  []domain.Post  `json:"posts"`
	Alerts []domain.Alert `json:"alerts"`
	Tips   []domain.Tip   `json:"tips"`
	User   domain.User    `json:"user"`
}

// LoadSeed reads a seed fixture from a JSON file, typically one produced by
// the genseed tool.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return seed, nil
}

// DefaultSeed is the built-in fixture: a morning of coastal hazard activity
// along the Indian coastline.
func DefaultSeed() Seed {
	return Seed{
		Posts: []domain.Post{
			{
				ID: "seed-1",
				User: domain.User{
					ID:     "u1",
					Name:   "Rajesh Kumar",
					Handle: "@rajesh_coastal",
				},
				Content:    "Massive waves hitting the shore at Marina Beach! Water level rising rapidly. Stay away from the coast.",
				HazardType: "High Waves",
				Severity:   domain.SeverityHigh,
				Location: domain.Location{
					Name:        "Marina Beach, Chennai",
					Coordinates: domain.Coordinates{Latitude: 13.0827, Longitude: 80.2707},
				},
				Timestamp: time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC),
				Likes:     45,
				Comments:  12,
				Shares:    8,
				Verified:  true,
			},
			{
				ID: "seed-2",
				User: domain.User{
					ID:     "u2",
					Name:   "Priya Nair",
					Handle: "@priya_kerala",
				},
				Content:    "Cyclone approaching Kochi coast. Strong winds and heavy rainfall expected. Fishermen advised not to venture into sea.",
				HazardType: "Cyclone",
				Severity:   domain.SeverityHigh,
				Location: domain.Location{
					Name:        "Kochi, Kerala",
					Coordinates: domain.Coordinates{Latitude: 9.9312, Longitude: 76.2673},
				},
				Timestamp: time.Date(2024, time.January, 15, 9, 15, 0, 0, time.UTC),
				Likes:     78,
				Comments:  23,
				Shares:    15,
				Verified:  true,
			},
			{
				ID: "seed-3",
				User: domain.User{
					ID:     "u3",
					Name:   "Amit Patel",
					Handle: "@amit_gujarat",
				},
				Content:    "Coastal flooding in Dwarka area. Roads waterlogged. Local authorities evacuating residents from low-lying areas.",
				HazardType: "Flood",
				Severity:   domain.SeverityMedium,
				Location: domain.Location{
					Name:        "Dwarka, Gujarat",
					Coordinates: domain.Coordinates{Latitude: 22.2394, Longitude: 68.9678},
				},
				Timestamp: time.Date(2024, time.January, 15, 8, 45, 0, 0, time.UTC),
				Likes:     34,
				Comments:  9,
				Shares:    6,
			},
			{
				ID: "seed-4",
				User: domain.User{
					ID:     "u4",
					Name:   "Sunita Reddy",
					Handle: "@sunita_ap",
				},
				Content:    "Storm surge warning for Visakhapatnam coast. Waves reaching 4-5 meters height. Port operations suspended.",
				HazardType: "High Waves",
				Severity:   domain.SeverityHigh,
				Location: domain.Location{
					Name:        "Visakhapatnam, Andhra Pradesh",
					Coordinates: domain.Coordinates{Latitude: 17.6868, Longitude: 83.2185},
				},
				Timestamp: time.Date(2024, time.January, 15, 7, 20, 0, 0, time.UTC),
				Likes:     56,
				Comments:  18,
				Shares:    11,
				Verified:  true,
			},
			{
				ID: "seed-5",
				User: domain.User{
					ID:     "u5",
					Name:   "Ravi Sharma",
					Handle: "@ravi_mumbai",
				},
				Content:    "Moderate waves at Juhu Beach. Weather seems to be improving. Fishermen preparing to resume operations.",
				HazardType: "High Waves",
				Severity:   domain.SeverityLow,
				Location: domain.Location{
					Name:        "Juhu Beach, Mumbai",
					Coordinates: domain.Coordinates{Latitude: 19.0760, Longitude: 72.8777},
				},
				Timestamp: time.Date(2024, time.January, 15, 6, 0, 0, 0, time.UTC),
				Likes:     23,
				Comments:  5,
				Shares:    3,
			},
		},
		Alerts: []domain.Alert{
			{
				ID:        "alert-1",
				Title:     "High Wave Alert",
				Message:   "High Wave Alert in Kerala Coast - Waves up to 6 meters expected",
				Severity:  domain.SeverityHigh,
				Location:  "Kerala Coast",
				Timestamp: time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
				Active:    true,
			},
			{
				ID:        "alert-2",
				Title:     "Cyclone Warning",
				Message:   "Cyclone 'Vardah' approaching Tamil Nadu coast in next 24 hours",
				Severity:  domain.SeverityHigh,
				Location:  "Tamil Nadu Coast",
				Timestamp: time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC),
				Active:    true,
			},
		},
		Tips: []domain.Tip{
			{
				ID:      "tip-1",
				Title:   "Tsunami Safety",
				Content: "If you feel strong earthquake shaking, immediately move to higher ground or inland.",
				Icon:    "\U0001F30A",
			},
			{
				ID:      "tip-2",
				Title:   "Cyclone Preparation",
				Content: "Secure loose objects, stock emergency supplies, and stay indoors during cyclone.",
				Icon:    "\U0001F300",
			},
			{
				ID:      "tip-3",
				Title:   "Flood Safety",
				Content: "Never walk or drive through flood water. Turn around, don't drown.",
				Icon:    "\U0001F30A",
			},
			{
				ID:      "tip-4",
				Title:   "High Wave Warning",
				Content: "Stay away from beaches and rocky shores during high wave conditions.",
				Icon:    "\U0001F30A",
			},
		},
		User: domain.User{
			ID:       "u-reporter",
			Name:     "John Doe",
			Handle:   "@johndoe_coastal",
			Email:    "john.doe@example.com",
			JoinDate: time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
			Stats: domain.UserStats{
				Reports:  12,
				Likes:    156,
				Comments: 43,
			},
			Badges: []domain.Badge{
				{ID: BadgeVerifiedReporter, Name: "Verified Reporter", Icon: "✅", Earned: true},
				{ID: BadgeEarlyWarning, Name: "Early Warning", Icon: "⚠️", Earned: true},
			},
		},
	}
}
