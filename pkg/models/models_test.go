package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserStatus(t *testing.T) {
	assert.Equal(t, UserActive, User{IsActive: true}.Status())
	assert.Equal(t, UserBlocked, User{IsActive: false}.Status())
}

func TestAccountIsAdmin(t *testing.T) {
	assert.False(t, Account{}.IsAdmin())
	assert.True(t, Account{IsStaff: true}.IsAdmin())
	assert.True(t, Account{IsSuperuser: true}.IsAdmin())
}

func TestFeedbackIssueLabels(t *testing.T) {
	assert.Empty(t, FeedbackEntry{}.IssueLabels())

	entry := FeedbackEntry{
		AppCrashedFreezing: true,
		GPSTrackingIssues:  true,
		Other:              true,
	}
	assert.Equal(t,
		[]string{"App Crashed/Freezing", "GPS Tracking Issues", "Other"},
		entry.IssueLabels(),
	)
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) string {
		return now.Add(-d).Format(time.RFC3339)
	}

	assert.Equal(t, "Just now", TimeAgo(at(30*time.Second), now))
	assert.Equal(t, "5 min ago", TimeAgo(at(5*time.Minute), now))
	assert.Equal(t, "1 hour ago", TimeAgo(at(90*time.Minute), now))
	assert.Equal(t, "3 hours ago", TimeAgo(at(3*time.Hour), now))
	assert.Equal(t, "1 day ago", TimeAgo(at(24*time.Hour), now))
	assert.Equal(t, "12 days ago", TimeAgo(at(12*24*time.Hour), now))
	assert.Equal(t, "11/13/2025", TimeAgo(at(90*24*time.Hour), now))

	// unparseable input is returned unchanged
	assert.Equal(t, "Jan 5, 2026", TimeAgo("Jan 5, 2026", now))
}
