package quizdesk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/quizdesk/quizdesk-go/pkg/api"
	"github.com/quizdesk/quizdesk-go/pkg/logger"
	"github.com/quizdesk/quizdesk-go/pkg/models"
	"github.com/quizdesk/quizdesk-go/pkg/store"
)

// User status filters accepted by SetFilter.
const (
	FilterAll     = "all"
	FilterActive  = "active"
	FilterBlocked = "blocked"
)

// Users is the user management store: the paginated student list with a
// status filter, client-side search and the block/unblock mutation.
type Users struct {
	*store.Store[models.User]
	view   *store.View
	client *api.Client
}

func userID(u models.User) int64 { return u.ID }

func newUsers(client *api.Client, log logger.Logger, onChange func()) *Users {
	opts := []store.Option[models.User]{store.WithLogger[models.User](log)}
	if onChange != nil {
		opts = append(opts, store.WithOnChange[models.User](onChange))
	}
	view := store.NewView()
	view.Filter = FilterAll
	return &Users{
		Store:  store.New(userID, opts...),
		view:   view,
		client: client,
	}
}

// View returns the mutable view state. Use SetFilter/SetPage rather than
// writing fields directly; they carry the reset semantics.
func (u *Users) View() *store.View { return u.view }

// SetFilter switches the status filter. On a change the displayed items are
// cleared and the page cursor reset; call Fetch to load the replacement
// page.
func (u *Users) SetFilter(filter string) {
	if u.view.SetFilter(filter) {
		u.Clear()
	}
}

// SetPage moves the page cursor. Call Fetch afterwards.
func (u *Users) SetPage(page int) { u.view.SetPage(page) }

// SetSearch updates the free-text query. Search narrows the already-fetched
// page via Visible and never hits the server.
func (u *Users) SetSearch(q string) { u.view.SetSearch(q) }

// Fetch loads the current page of users for the active filter.
func (u *Users) Fetch(ctx context.Context) error {
	return u.FetchList(ctx, func(ctx context.Context) ([]models.User, store.Pagination, error) {
		params := url.Values{}
		params.Set("page", strconv.Itoa(u.view.Page))
		if f := u.view.Filter; f != "" && f != FilterAll {
			params.Set("status", f)
		}
		resp, err := u.client.Get(ctx, "/dashboard/users/", params)
		if err != nil {
			return nil, store.Pagination{}, err
		}
		page, err := api.DecodePage[models.User](resp)
		if err != nil {
			return nil, store.Pagination{}, err
		}
		return page.Results, store.Pagination{
			Count:       page.Count,
			Page:        u.view.Page,
			HasNext:     page.Next != nil,
			HasPrevious: page.Previous != nil,
		}, nil
	})
}

// Visible returns the fetched page narrowed by the search query, matching
// against name and email.
func (u *Users) Visible() []models.User {
	return store.ApplySearch(u.view, u.Items(), func(us models.User) []string {
		return []string{us.FullName, us.Email}
	})
}

// ToggleBlock flips the blocked state of one user. The server decides the
// resulting state; the returned is_active is applied to the stored row
// verbatim, so a drifted client can only converge, never diverge further.
func (u *Users) ToggleBlock(ctx context.Context, id int64) (*models.ToggleResult, error) {
	var result models.ToggleResult
	err := u.Mutate(ctx, id, func(ctx context.Context) (store.Commit[models.User], error) {
		resp, err := u.client.Post(ctx, fmt.Sprintf("/dashboard/users/%d/toggle-block/", id), nil)
		if err != nil {
			return nil, err
		}
		if err := api.AsError(resp); err != nil {
			return nil, err
		}
		if err := resp.Decode(&result); err != nil {
			return nil, err
		}
		return store.CommitUpdate(userID, id, func(us *models.User) {
			us.IsActive = result.IsActive
		}), nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
