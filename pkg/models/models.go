// Package models contains the wire types exchanged with the QuizDesk admin
// API. The backend is authoritative for every field here; the SDK never
// computes server-owned values (counts, statuses) on its own.
package models

import (
	"fmt"
	"time"
)

// UserStatus is the display status derived from User.IsActive.
type UserStatus string

const (
	UserActive  UserStatus = "Active"
	UserBlocked UserStatus = "Blocked"
)

// User is a student account as listed under user management.
type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	JoinDate string `json:"join_date"`
	IsActive bool   `json:"is_active"`
}

// Status maps the server-owned is_active flag to its display status.
func (u User) Status() UserStatus {
	if u.IsActive {
		return UserActive
	}
	return UserBlocked
}

// ContentKind selects between the two moderated content collections.
type ContentKind string

const (
	ContentQuizzes    ContentKind = "quizzes"
	ContentFlashcards ContentKind = "flashcards"
)

// ContentItem is a generated quiz or flashcard set under content control.
type ContentItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	SourceFile  string `json:"source_file"`
	CreatedDate string `json:"created_date"`
}

// PlanFeature is a single feature row on a subscription plan card. Value is
// either a number or a string such as "Unlimited", so it stays untyped.
type PlanFeature struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// SubscriptionPlan is a purchasable plan. Subscribers is server-owned.
type SubscriptionPlan struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Duration    string        `json:"duration"`
	Price       float64       `json:"price"`
	Currency    string        `json:"currency"`
	Features    []PlanFeature `json:"features"`
	Subscribers int           `json:"subscribers"`
}

// UserPlan is one row of the recent-subscriptions table.
type UserPlan struct {
	Serial int    `json:"sl"`
	User   string `json:"user"`
	Plan   string `json:"plan"`
	Date   string `json:"date"`
}

// RevenuePoint is one point of the subscription revenue trend chart.
type RevenuePoint struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// SubscriptionStats are the headline numbers on the subscriptions view.
type SubscriptionStats struct {
	MonthlyRevenue    float64        `json:"monthly_revenue"`
	Growth            float64        `json:"growth"`
	FailedPayments    int            `json:"failed_payments"`
	ActiveSubscribers int            `json:"active_subscribers"`
	RevenueTrend      []RevenuePoint `json:"revenue_trend"`
}

// FeedbackEntry is one user feedback submission. The issue booleans come
// from the feedback form's checkbox group.
type FeedbackEntry struct {
	ID                 int64  `json:"id"`
	UserName           string `json:"user_name,omitempty"`
	UserEmail          string `json:"user_email,omitempty"`
	Rating             int    `json:"rating"`
	AppCrashedFreezing bool   `json:"app_crashed_freezing"`
	PoorPhotoQuality   bool   `json:"poor_photo_quality"`
	GPSTrackingIssues  bool   `json:"gps_tracking_issues"`
	SlowPerformance    bool   `json:"slow_performance"`
	Other              bool   `json:"other"`
	Comment            string `json:"comment"`
	NeedQuickSupport   bool   `json:"need_quick_support"`
	CreatedAt          string `json:"created_at"`
	IsResponded        bool   `json:"is_responded"`
}

// IssueLabels returns the human-readable labels for the checked issue flags,
// in form order.
func (f FeedbackEntry) IssueLabels() []string {
	var labels []string
	if f.AppCrashedFreezing {
		labels = append(labels, "App Crashed/Freezing")
	}
	if f.PoorPhotoQuality {
		labels = append(labels, "Poor Photo Quality")
	}
	if f.GPSTrackingIssues {
		labels = append(labels, "GPS Tracking Issues")
	}
	if f.SlowPerformance {
		labels = append(labels, "Slow Performance")
	}
	if f.Other {
		labels = append(labels, "Other")
	}
	return labels
}

// Account is the authenticated admin identity. IsStaff/IsSuperuser gate
// access to the dashboard.
type Account struct {
	ID              int64   `json:"id"`
	Email           string  `json:"email"`
	FullName        string  `json:"full_name"`
	PhoneNumber     string  `json:"phone_number,omitempty"`
	Avatar          *string `json:"avatar"`
	IsEmailVerified bool    `json:"is_email_verified"`
	IsStaff         bool    `json:"is_staff"`
	IsSuperuser     bool    `json:"is_superuser"`
	CreatedAt       string  `json:"created_at"`
}

// IsAdmin reports whether the account may use the admin dashboard.
func (a Account) IsAdmin() bool { return a.IsStaff || a.IsSuperuser }

// PrivacyPolicy is the editable policy document. Content is rich-text HTML.
type PrivacyPolicy struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// DashboardStats are the stat-card numbers on the dashboard landing view.
// The *Change fields are percentage deltas against the previous period.
type DashboardStats struct {
	TotalStudents        int     `json:"total_students"`
	TotalStudentsChange  float64 `json:"total_students_change"`
	ActiveStudents       int     `json:"active_students"`
	ActiveStudentsChange float64 `json:"active_students_change"`
	BlockedStudents      int     `json:"blocked_students"`
	BlockedStudentsChg   float64 `json:"blocked_students_change"`
	TotalQuizzes         int     `json:"total_quizzes"`
	TotalQuizzesChange   float64 `json:"total_quizzes_change"`
	TotalFlashcards      int     `json:"total_flashcards"`
	TotalFlashcardsChg   float64 `json:"total_flashcards_change"`
	TodaysUploads        int     `json:"todays_uploads"`
	TodaysUploadsChange  float64 `json:"todays_uploads_change"`
}

// WeeklyPoint is one week of an analytics trend series.
type WeeklyPoint struct {
	Week  string  `json:"week"`
	Value float64 `json:"value"`
}

// Analytics is the reports-analytics payload.
type Analytics struct {
	QuizGenerationTrend []WeeklyPoint `json:"quiz_generation_trend"`
	FlashcardEngagement []WeeklyPoint `json:"flashcard_engagement"`
	MostActiveStudent   struct {
		Name             string `json:"name"`
		QuizzesCompleted int    `json:"quizzes_completed"`
	} `json:"most_active_student"`
	MostUsedDocument struct {
		Title         string `json:"title"`
		TimesAccessed int    `json:"times_accessed"`
	} `json:"most_used_document"`
	PeakUsageTime struct {
		TimeRange          string  `json:"time_range"`
		AverageActiveUsers float64 `json:"average_active_users"`
	} `json:"peak_usage_time"`
}

// ToggleResult is the response of a block/unblock mutation. IsActive is the
// server's post-mutation state and must be applied verbatim.
type ToggleResult struct {
	Message  string `json:"message"`
	IsActive bool   `json:"is_active"`
}

// RespondResult is the response of a feedback responded-state mutation.
type RespondResult struct {
	Message     string `json:"message"`
	IsResponded bool   `json:"is_responded"`
}

// TimeAgo renders an RFC 3339 timestamp relative to now, matching the
// dashboard's feedback list ("5 min ago", "2 days ago"). Unparseable input
// is returned unchanged.
func TimeAgo(s string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return t.Format("1/2/2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
