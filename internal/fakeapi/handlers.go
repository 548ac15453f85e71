package fakeapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/quizdesk/quizdesk-go/pkg/models"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errDetail("Invalid request body"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Email != s.admin.Email || req.Password != s.password {
		writeJSON(w, http.StatusUnauthorized, errDetail("Invalid email or password"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access":  s.issueToken(),
		"refresh": "refresh-" + s.accessToken,
		"user":    s.admin,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.accessToken = ""
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, errDetail("Email is required"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to your email"})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errDetail("Invalid request body"))
		return
	}
	if req.OTP != ValidOTP {
		writeJSON(w, http.StatusBadRequest, errDetail("Invalid or expired OTP"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP verified"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errDetail("Password is required"))
		return
	}
	s.mu.Lock()
	s.password = req.Password
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successful"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, blocked := 0, 0
	for _, u := range s.users {
		if u.IsActive {
			active++
		} else {
			blocked++
		}
	}
	writeJSON(w, http.StatusOK, models.DashboardStats{
		TotalStudents:       len(s.users),
		TotalStudentsChange: 4.2,
		ActiveStudents:      active,
		BlockedStudents:     blocked,
		TotalQuizzes:        len(s.quizzes),
		TotalFlashcards:     len(s.cards),
		TodaysUploads:       3,
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	var a models.Analytics
	for i, wk := range []string{"W1", "W2", "W3", "W4"} {
		a.QuizGenerationTrend = append(a.QuizGenerationTrend, models.WeeklyPoint{Week: wk, Value: float64(40 + 10*i)})
		a.FlashcardEngagement = append(a.FlashcardEngagement, models.WeeklyPoint{Week: wk, Value: float64(25 + 5*i)})
	}
	a.MostActiveStudent.Name = "Emma Johnson"
	a.MostActiveStudent.QuizzesCompleted = 47
	a.MostUsedDocument.Title = "Biology Chapter 3 Quiz"
	a.MostUsedDocument.TimesAccessed = 152
	a.PeakUsageTime.TimeRange = "7pm - 9pm"
	a.PeakUsageTime.AverageActiveUsers = 86
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := s.users
	switch r.URL.Query().Get("status") {
	case "active":
		filtered = nil
		for _, u := range s.users {
			if u.IsActive {
				filtered = append(filtered, u)
			}
		}
	case "blocked":
		filtered = nil
		for _, u := range s.users {
			if !u.IsActive {
				filtered = append(filtered, u)
			}
		}
	}
	writeJSON(w, http.StatusOK, paginate(r, filtered))
}

func (s *Server) handleToggleBlock(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].IsActive = !s.users[i].IsActive
			msg := "User blocked successfully"
			if s.users[i].IsActive {
				msg = "User unblocked successfully"
			}
			writeJSON(w, http.StatusOK, models.ToggleResult{
				Message:  msg,
				IsActive: s.users[i].IsActive,
			})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, errDetail("User not found"))
}

func (s *Server) handleContent(items *[]models.ContentItem) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, http.StatusOK, paginate(r, *items))
	}
}

func (s *Server) handleContentDelete(items *[]models.ContentItem) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range *items {
			if (*items)[i].ID == id {
				*items = append((*items)[:i], (*items)[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, errDetail("Not found"))
	}
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, paginate(r, s.plans))
}

func (s *Server) handlePlanCreate(w http.ResponseWriter, r *http.Request) {
	var plan models.SubscriptionPlan
	if err := decodeJSON(r, &plan); err != nil {
		writeJSON(w, http.StatusBadRequest, errDetail("Invalid request body"))
		return
	}
	if plan.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"name": {"This field is required."}})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	plan.ID = s.nextIDLocked()
	plan.Subscribers = 0
	s.plans = append(s.plans, plan)
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handlePlanUpdate(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var plan models.SubscriptionPlan
	if err := decodeJSON(r, &plan); err != nil {
		writeJSON(w, http.StatusBadRequest, errDetail("Invalid request body"))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.plans {
		if s.plans[i].ID == id {
			plan.ID = id
			plan.Subscribers = s.plans[i].Subscribers
			s.plans[i] = plan
			writeJSON(w, http.StatusOK, plan)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, errDetail("Plan not found"))
}

func (s *Server) handlePlanDelete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.plans {
		if s.plans[i].ID == id {
			s.plans = append(s.plans[:i], s.plans[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, errDetail("Plan not found"))
}

func (s *Server) handleSubscriptionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.SubscriptionStats{
		MonthlyRevenue:    4820.50,
		Growth:            6.1,
		FailedPayments:    4,
		ActiveSubscribers: 330,
		RevenueTrend: []models.RevenuePoint{
			{Name: "Jan", Revenue: 3900},
			{Name: "Feb", Revenue: 4820.50},
		},
	})
}

func (s *Server) handleRecentSubscriptions(w http.ResponseWriter, r *http.Request) {
	rows := []models.UserPlan{
		{Serial: 1, User: "Emma Johnson", Plan: "Pro", Date: "Feb 10, 2026"},
		{Serial: 2, User: "Lucas Johnson", Plan: "Campus", Date: "Feb 9, 2026"},
		{Serial: 3, User: "Mia Johnson", Plan: "Pro", Date: "Feb 8, 2026"},
	}
	writeJSON(w, http.StatusOK, paginate(r, rows))
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := s.feedback
	switch r.URL.Query().Get("status") {
	case "new":
		filtered = nil
		for _, f := range s.feedback {
			if !f.IsResponded {
				filtered = append(filtered, f)
			}
		}
	case "responded":
		filtered = nil
		for _, f := range s.feedback {
			if f.IsResponded {
				filtered = append(filtered, f)
			}
		}
	}
	writeJSON(w, http.StatusOK, paginate(r, filtered))
}

func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.feedback {
		if s.feedback[i].ID == id {
			s.feedback[i].IsResponded = true
			writeJSON(w, http.StatusOK, models.RespondResult{
				Message:     "Feedback marked as responded",
				IsResponded: true,
			})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, errDetail("Feedback not found"))
}

func (s *Server) handleEmailChangeRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewEmail string `json:"new_email"`
	}
	if err := decodeJSON(r, &req); err != nil || req.NewEmail == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"new_email": {"This field is required."}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to " + req.NewEmail})
}

func (s *Server) handleEmailChangeVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewEmail string `json:"new_email"`
		OTP      string `json:"otp"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errDetail("Invalid request body"))
		return
	}
	if req.OTP != ValidOTP {
		writeJSON(w, http.StatusBadRequest, errDetail("Invalid or expired OTP"))
		return
	}
	s.mu.Lock()
	s.admin.Email = req.NewEmail
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email changed successfully"})
}

func (s *Server) handlePolicyGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.policy)
}

func (s *Server) handlePolicyPut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"content": {"This field may not be blank."}})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy.Title = req.Title
	s.policy.Content = req.Content
	s.policy.UpdatedAt = "2026-02-11T00:00:00Z"
	writeJSON(w, http.StatusOK, s.policy)
}

// handleProfileUpdate accepts either a JSON body or a multipart form with
// full_name, phone_number and an optional avatar file.
func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	var fullName, phone, avatar string

	if ct := r.Header.Get("Content-Type"); strings.HasPrefix(ct, "multipart/") {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, errDetail("Invalid multipart body"))
			return
		}
		fullName = r.FormValue("full_name")
		phone = r.FormValue("phone_number")
		if _, hdr, err := r.FormFile("avatar"); err == nil {
			avatar = "/media/avatars/" + hdr.Filename
		}
	} else {
		var req struct {
			FullName    string `json:"full_name"`
			PhoneNumber string `json:"phone_number"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errDetail("Invalid request body"))
			return
		}
		fullName, phone = req.FullName, req.PhoneNumber
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if fullName != "" {
		s.admin.FullName = fullName
	}
	if phone != "" {
		s.admin.PhoneNumber = phone
	}
	if avatar != "" {
		s.admin.Avatar = &avatar
	}
	writeJSON(w, http.StatusOK, s.admin)
}

func (s *Server) handlePasswordChange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Current string `json:"current_password"`
		New     string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errDetail("Invalid request body"))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Current != s.password {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"current_password": {"Current password is incorrect."},
		})
		return
	}
	s.password = req.New
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Password changed for %s", s.admin.Email)})
}
