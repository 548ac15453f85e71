package fakeapi

import (
	"fmt"
	"time"

	"github.com/quizdesk/quizdesk-go/pkg/models"
)

// seed loads the default fixture data: 23 users (3 blocked), 14 quizzes,
// 8 flashcard sets, 3 plans and 12 feedback entries, enough to exercise
// pagination on every list.
func (s *Server) seed() {
	s.nextID = 1000
	s.password = AdminPassword
	s.admin = models.Account{
		ID:          1,
		Email:       AdminEmail,
		FullName:    "Dashboard Admin",
		IsStaff:     true,
		IsSuperuser: true,
		CreatedAt:   "2025-01-10T09:00:00Z",
	}

	first := []string{
		"Emma", "Michael", "Sarah", "James", "Lisa", "David", "Jennifer",
		"Robert", "Maria", "William", "Olivia", "Daniel", "Sophia", "Lucas",
		"Amelia", "Henry", "Grace", "Ethan", "Chloe", "Noah", "Ava", "Liam",
		"Mia",
	}
	for i, name := range first {
		s.users = append(s.users, models.User{
			ID:       int64(i + 1),
			FullName: name + " Johnson",
			Email:    fmt.Sprintf("%s.j%d@university.edu", name, i+1),
			JoinDate: time.Date(2026, 1, 15+i, 0, 0, 0, 0, time.UTC).Format("Jan 2, 2006"),
			IsActive: i%7 != 3,
		})
	}

	for i := 0; i < 14; i++ {
		s.quizzes = append(s.quizzes, models.ContentItem{
			ID:          int64(100 + i),
			Title:       fmt.Sprintf("Biology Chapter %d Quiz", i+1),
			ContentType: "quiz",
			SourceFile:  fmt.Sprintf("bio-ch%d.pdf", i+1),
			CreatedDate: "Feb 3, 2026",
		})
	}
	for i := 0; i < 8; i++ {
		s.cards = append(s.cards, models.ContentItem{
			ID:          int64(200 + i),
			Title:       fmt.Sprintf("Chemistry Deck %d", i+1),
			ContentType: "flashcard",
			SourceFile:  fmt.Sprintf("chem-%d.pdf", i+1),
			CreatedDate: "Feb 5, 2026",
		})
	}

	s.plans = []models.SubscriptionPlan{
		{
			ID: 1, Name: "Free", Duration: "monthly", Price: 0, Currency: "USD",
			Features: []models.PlanFeature{
				{Label: "Quizzes per month", Value: 5},
				{Label: "Flashcard decks", Value: 2},
			},
			Subscribers: 1240,
		},
		{
			ID: 2, Name: "Pro", Duration: "monthly", Price: 9.99, Currency: "USD",
			Features: []models.PlanFeature{
				{Label: "Quizzes per month", Value: "Unlimited"},
				{Label: "Flashcard decks", Value: "Unlimited"},
			},
			Subscribers: 312,
		},
		{
			ID: 3, Name: "Campus", Duration: "yearly", Price: 79, Currency: "USD",
			Features: []models.PlanFeature{
				{Label: "Seats", Value: 50},
			},
			Subscribers: 18,
		},
	}

	for i := 0; i < 12; i++ {
		s.feedback = append(s.feedback, models.FeedbackEntry{
			ID:                 int64(300 + i),
			UserName:           s.users[i].FullName,
			UserEmail:          s.users[i].Email,
			Rating:             (i % 5) + 1,
			AppCrashedFreezing: i%4 == 0,
			SlowPerformance:    i%3 == 0,
			Other:              i%5 == 0,
			Comment:            "The quiz generator mislabeled two answers.",
			NeedQuickSupport:   i%6 == 0,
			CreatedAt:          time.Date(2026, 2, 1+i, 12, 0, 0, 0, time.UTC).Format(time.RFC3339),
			IsResponded:        i%2 == 1,
		})
	}

	s.policy = models.PrivacyPolicy{
		ID:        1,
		Title:     "Privacy Policy",
		Content:   "<h1>Privacy Policy</h1><p>We store only what the dashboard needs.</p>",
		CreatedAt: "2025-06-01T00:00:00Z",
		UpdatedAt: "2025-06-01T00:00:00Z",
	}
}

func (s *Server) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}
