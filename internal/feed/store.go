// Package feed holds the in-memory community feed: seeded posts, alerts,
// safety tips, and the reporting user's profile. Everything lives in process
// memory; a restart reseeds the feed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/coastwatch/hazard-report-service/internal/capture"
	"github.com/coastwatch/hazard-report-service/internal/domain"
	"github.com/coastwatch/hazard-report-service/internal/observability"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrUnknownHazard = errors.New("unknown hazard type")
)

// Publisher emits submitted reports to an external stream. Publishing is
// best effort: failures are logged and never block submission.
type Publisher interface {
	PublishReport(ctx context.Context, post domain.Post) error
}

// Submission is a report handed in by the wizard: a completed capture plus
// the user's hazard choice and optional description.
type Submission struct {
	Capture     capture.Result `json:"capture"`
	HazardType  string         `json:"hazard_type"`
	Description string         `json:"description,omitempty"`
}

// Store is the thread-safe feed state.
type Store struct {
	logger    *slog.Logger
	metrics   *observability.Metrics
	publisher Publisher

	mu     sync.RWMutex
	posts  []domain.Post
	alerts []domain.Alert
	tips   []domain.Tip
	user   domain.User

	// Badge inputs that are not derivable from the stats counters alone.
	hasVerifiedPost     bool
	hasHighSeverityPost bool
}

// NewStore creates a feed seeded with the given fixture. publisher may be
// nil to disable report event publishing.
func NewStore(seed Seed, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Store {
	s := &Store{
		logger:    logger,
		metrics:   metrics,
		publisher: publisher,
		posts:     append([]domain.Post(nil), seed.Posts...),
		alerts:    append([]domain.Alert(nil), seed.Alerts...),
		tips:      append([]domain.Tip(nil), seed.Tips...),
		user:      seed.User,
	}
	for _, b := range seed.User.Badges {
		switch b.ID {
		case BadgeVerifiedReporter:
			s.hasVerifiedPost = b.Earned
		case BadgeEarlyWarning:
			s.hasHighSeverityPost = b.Earned
		}
	}
	return s
}

// List returns the feed newest-first, optionally narrowed to one hazard
// filter id ("flood", "high-waves", ...). "all", "", and unknown ids return
// everything.
func (s *Store) List(filterID string) []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := domain.HazardNameForFilter(filterID)
	if name == "" {
		return append([]domain.Post(nil), s.posts...)
	}

	out := make([]domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if p.HazardType == name {
			out = append(out, p)
		}
	}
	return out
}

// Get returns a single post by id.
func (s *Store) Get(id string) (domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Post{}, fmt.Errorf("%w: %s", ErrPostNotFound, id)
}

// Like increments a post's like counter and the profile's likes-given stat,
// returning the updated post.
func (s *Store) Like(id string) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Likes++
			s.user.Stats.Likes++
			return s.posts[i], nil
		}
	}
	return domain.Post{}, fmt.Errorf("%w: %s", ErrPostNotFound, id)
}

// Submit turns a completed capture into a feed post. The post carries the
// capture's location, timestamp, and verdict unchanged; severity derives
// from the verdict's risk level. New posts are prepended unverified with
// zeroed counters.
func (s *Store) Submit(ctx context.Context, sub Submission) (domain.Post, error) {
	if !domain.KnownHazardName(sub.HazardType) {
		return domain.Post{}, fmt.Errorf("%w: %q", ErrUnknownHazard, sub.HazardType)
	}

	content := sub.Description
	if content == "" {
		content = fmt.Sprintf("%s reported at %s", sub.HazardType, sub.Capture.LocationLabel)
	}

	image := sub.Capture.AnnotatedImage
	if image == "" {
		image = sub.Capture.SourceImage
	}

	timestamp := sub.Capture.CapturedAt
	if timestamp.IsZero() {
		timestamp = domain.Now()
	}

	verdict := sub.Capture.Verdict

	s.mu.Lock()
	post := domain.Post{
		ID:         uuid.NewString(),
		User:       s.user,
		Content:    content,
		Image:      image,
		HazardType: sub.HazardType,
		Severity:   verdict.Severity(),
		Location: domain.Location{
			Name:        sub.Capture.LocationLabel,
			Coordinates: sub.Capture.Coordinates,
		},
		Timestamp:      timestamp,
		FloodDetection: &verdict,
	}
	s.posts = append([]domain.Post{post}, s.posts...)
	s.user.Stats.Reports++
	if post.Severity == domain.SeverityHigh {
		s.hasHighSeverityPost = true
	}
	s.mu.Unlock()

	s.metrics.PostsSubmitted.Inc()
	s.logger.Info("report submitted",
		"post_id", post.ID,
		"hazard_type", post.HazardType,
		"severity", post.Severity,
		"location", post.Location.Name,
		"degraded", sub.Capture.State == capture.StateDegraded,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishReport(ctx, post); err != nil {
			s.metrics.PublishErrors.Inc()
			s.logger.Warn("report publish failed", "post_id", post.ID, "error", err)
		}
	}

	return post, nil
}

// Alerts returns the active regional warnings.
func (s *Store) Alerts() []domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Alert(nil), s.alerts...)
}

// Tips returns the safety tip carousel content.
func (s *Store) Tips() []domain.Tip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Tip(nil), s.tips...)
}

// CheckReadiness reports whether the feed can serve traffic. The store is
// seeded in the constructor, so it is ready as soon as it exists.
func (s *Store) CheckReadiness(_ context.Context) error {
	return nil
}

// Badge ids for the fixed achievement set.
const (
	BadgeFiveReports      = "5-reports"
	BadgeVerifiedReporter = "verified-reporter"
	BadgeCommunityHelper  = "community-helper"
	BadgeEarlyWarning     = "early-warning"
)

// Profile returns the reporting user with badge earned state recomputed
// from current activity.
func (s *Store) Profile() domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user := s.user
	user.Badges = []domain.Badge{
		{ID: BadgeFiveReports, Name: "5 Reports Posted", Icon: "\U0001F4DD", Earned: user.Stats.Reports >= 5},
		{ID: BadgeVerifiedReporter, Name: "Verified Reporter", Icon: "✅", Earned: s.hasVerifiedPost},
		{ID: BadgeCommunityHelper, Name: "Community Helper", Icon: "\U0001F91D", Earned: user.Stats.Likes >= 25},
		{ID: BadgeEarlyWarning, Name: "Early Warning", Icon: "⚠️", Earned: s.hasHighSeverityPost},
	}
	return user
}
