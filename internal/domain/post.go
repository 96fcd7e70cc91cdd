package domain

import "time"

// Severity is the user-facing three-level hazard severity scale.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// User is a community member with aggregate activity stats and badges.
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Handle   string    `json:"handle"`
	Email    string    `json:"email,omitempty"`
	Avatar   string    `json:"avatar,omitempty"`
	JoinDate time.Time `json:"join_date"`
	Stats    UserStats `json:"stats"`
	Badges   []Badge   `json:"badges,omitempty"`
}

// UserStats aggregates a user's feed activity.
type UserStats struct {
	Reports  int `json:"reports"`
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// Badge is a profile achievement. Earned state is recomputed from activity
// thresholds, never stored.
type Badge struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Earned bool   `json:"earned"`
}

// Location names a place together with the coordinates it was reported from.
type Location struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

// Post is a hazard report in the community feed. Location and FloodDetection
// always originate from the same capture run.
type Post struct {
	ID             string                 `json:"id"`
	User           User                   `json:"user"`
	Content        string                 `json:"content"`
	Image          string                 `json:"image,omitempty"`
	HazardType     string                 `json:"hazard_type"`
	Severity       Severity               `json:"severity"`
	Location       Location               `json:"location"`
	Timestamp      time.Time              `json:"timestamp"`
	Likes          int                    `json:"likes"`
	Comments       int                    `json:"comments"`
	Shares         int                    `json:"shares"`
	Verified       bool                   `json:"verified"`
	FloodDetection *ClassificationVerdict `json:"flood_detection,omitempty"`
}

// Alert is an active regional hazard warning shown above the feed.
type Alert struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
	Active    bool      `json:"active"`
}

// Tip is a rotating safety tip.
type Tip struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Icon    string `json:"icon"`
}

// HazardType is a feed filter category.
type HazardType struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// HazardTypes is the fixed filter catalogue, "all" first.
var HazardTypes = []HazardType{
	{ID: "all", Name: "All", Color: "gray"},
	{ID: "flood", Name: "Flood", Color: "blue"},
	{ID: "high-waves", Name: "High Waves", Color: "cyan"},
	{ID: "cyclone", Name: "Cyclone", Color: "purple"},
	{ID: "tsunami", Name: "Tsunami", Color: "red"},
}

// HazardNameForFilter resolves a filter id ("flood", "high-waves", ...) to
// the hazard name posts carry. Returns "" for "all" or unknown ids, meaning
// no filtering.
func HazardNameForFilter(id string) string {
	if id == "" || id == "all" {
		return ""
	}
	for _, h := range HazardTypes {
		if h.ID == id {
			return h.Name
		}
	}
	return ""
}

// KnownHazardName reports whether name is one of the selectable hazard
// types (everything in the catalogue except "All").
func KnownHazardName(name string) bool {
	for _, h := range HazardTypes[1:] {
		if h.Name == name {
			return true
		}
	}
	return false
}
