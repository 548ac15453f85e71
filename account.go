package quizdesk

import (
	"context"
	"io"

	"github.com/quizdesk/quizdesk-go/pkg/api"
	"github.com/quizdesk/quizdesk-go/pkg/logger"
	"github.com/quizdesk/quizdesk-go/pkg/models"
	"github.com/quizdesk/quizdesk-go/pkg/session"
)

// Account manages the admin's own profile and the settings section:
// profile updates, password and email changes, and the privacy policy
// document. Unlike the list stores it holds no item collection; successful
// profile mutations write through to the shared session identity so every
// reader of Session.Identity sees the new values.
type Account struct {
	client  *api.Client
	session *session.Session
	log     logger.Logger
}

func newAccount(client *api.Client, sess *session.Session, log logger.Logger) *Account {
	return &Account{client: client, session: sess, log: log}
}

// Identity returns the current admin identity from the session, or nil when
// not logged in.
func (a *Account) Identity() *models.Account { return a.session.Identity() }

// ProfileUpdate carries the editable profile fields. Avatar is optional;
// when set the update is sent as a multipart form upload.
type ProfileUpdate struct {
	FullName       string
	PhoneNumber    string
	Avatar         io.Reader
	AvatarFilename string
}

// UpdateProfile submits the profile form. The server's returned account is
// authoritative and replaces the session identity.
func (a *Account) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.Account, error) {
	var body any
	if upd.Avatar != nil {
		form := &api.Multipart{}
		form.AddField("full_name", upd.FullName)
		if upd.PhoneNumber != "" {
			form.AddField("phone_number", upd.PhoneNumber)
		}
		form.AddFile("avatar", upd.AvatarFilename, upd.Avatar)
		body = form
	} else {
		payload := map[string]string{"full_name": upd.FullName}
		if upd.PhoneNumber != "" {
			payload["phone_number"] = upd.PhoneNumber
		}
		body = payload
	}

	resp, err := a.client.Patch(ctx, "/me/", body)
	if err != nil {
		return nil, err
	}
	if err := api.AsError(resp); err != nil {
		return nil, err
	}
	var account models.Account
	if err := resp.Decode(&account); err != nil {
		return nil, err
	}
	a.session.UpdateIdentity(func(u *models.Account) { *u = account })
	return &account, nil
}

// ChangePassword submits a password change. All validation failures are
// local ValidationErrors and never reach the server:
// every field required, new password at least 6 characters, confirmation
// matching, and the new password differing from the current one.
func (a *Account) ChangePassword(ctx context.Context, current, newPassword, confirm string) error {
	switch {
	case current == "" || newPassword == "" || confirm == "":
		return &session.ValidationError{Message: "Please fill in all password fields"}
	case len(newPassword) < 6:
		return &session.ValidationError{Message: "New password must be at least 6 characters"}
	case newPassword != confirm:
		return &session.ValidationError{Message: "New passwords do not match"}
	case current == newPassword:
		return &session.ValidationError{Message: "New password must be different from current password"}
	}

	resp, err := a.client.Post(ctx, "/me/password/change/", map[string]string{
		"current_password": current,
		"new_password":     newPassword,
	})
	if err != nil {
		return err
	}
	return api.AsError(resp)
}

// RequestEmailChange starts the two-step email change by sending an OTP to
// the new address.
func (a *Account) RequestEmailChange(ctx context.Context, newEmail string) error {
	if newEmail == "" {
		return &session.ValidationError{Message: "Please enter a new email address"}
	}
	resp, err := a.client.Post(ctx, "/dashboard/change-email/request/", map[string]string{
		"new_email": newEmail,
	})
	if err != nil {
		return err
	}
	return api.AsError(resp)
}

// VerifyEmailChange completes the email change with the OTP sent to the new
// address. On success the session identity's email is updated in place.
func (a *Account) VerifyEmailChange(ctx context.Context, newEmail, otp string) error {
	if !session.ValidOTP(otp) {
		return &session.ValidationError{Message: "Please enter the 6-digit code"}
	}
	resp, err := a.client.Post(ctx, "/dashboard/change-email/verify/", map[string]string{
		"new_email": newEmail,
		"otp":       otp,
	})
	if err != nil {
		return err
	}
	if err := api.AsError(resp); err != nil {
		return err
	}
	a.session.UpdateIdentity(func(u *models.Account) { u.Email = newEmail })
	return nil
}

// PrivacyPolicy fetches the policy document. Content is the rich-text
// markup produced by pkg/richtext.
func (a *Account) PrivacyPolicy(ctx context.Context) (*models.PrivacyPolicy, error) {
	resp, err := a.client.Get(ctx, "/privacy-policy/", nil)
	if err != nil {
		return nil, err
	}
	if err := api.AsError(resp); err != nil {
		return nil, err
	}
	var policy models.PrivacyPolicy
	if err := resp.Decode(&policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// UpdatePrivacyPolicy replaces the policy title and content. The server's
// returned document, with its refreshed timestamps, is handed back.
func (a *Account) UpdatePrivacyPolicy(ctx context.Context, title, content string) (*models.PrivacyPolicy, error) {
	if content == "" {
		return nil, &session.ValidationError{Message: "Please enter content"}
	}
	resp, err := a.client.Put(ctx, "/privacy-policy/", map[string]string{
		"title":   title,
		"content": content,
	})
	if err != nil {
		return nil, err
	}
	if err := api.AsError(resp); err != nil {
		return nil, err
	}
	var policy models.PrivacyPolicy
	if err := resp.Decode(&policy); err != nil {
		return nil, err
	}
	return &policy, nil
}
