package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwatch/hazard-report-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 1, 16, 8, 30, 0, 0, time.UTC)
	post := domain.Post{
		ID:         "post-1",
		HazardType: "Flood",
		Severity:   domain.SeverityHigh,
		Location: domain.Location{
			Name:        "Marina Beach, Chennai",
			Coordinates: domain.Coordinates{Latitude: 13.0827, Longitude: 80.2707},
		},
		Timestamp: now,
	}

	msg, err := serializeToMessage(post)
	require.NoError(t, err)

	assert.Equal(t, []byte("post-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"hazard_type":"Flood"`)
	assert.Contains(t, string(msg.Value), `"severity":"high"`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "hazard_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("Flood"), msg.Headers[0].Value)
	assert.Equal(t, "submitted_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}
