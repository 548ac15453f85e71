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

// Feedback status filters accepted by SetFilter.
const (
	FeedbackNew       = "new"
	FeedbackResponded = "responded"
)

// Feedback is the feedback triage store: submissions filtered by responded
// state, with a single mark-responded mutation per entry.
type Feedback struct {
	*store.Store[models.FeedbackEntry]
	view   *store.View
	client *api.Client
}

func feedbackID(f models.FeedbackEntry) int64 { return f.ID }

func newFeedback(client *api.Client, log logger.Logger, onChange func()) *Feedback {
	opts := []store.Option[models.FeedbackEntry]{store.WithLogger[models.FeedbackEntry](log)}
	if onChange != nil {
		opts = append(opts, store.WithOnChange[models.FeedbackEntry](onChange))
	}
	view := store.NewView()
	view.Filter = FeedbackNew
	return &Feedback{
		Store:  store.New(feedbackID, opts...),
		view:   view,
		client: client,
	}
}

// View returns the mutable view state.
func (f *Feedback) View() *store.View { return f.view }

// SetFilter switches between new and responded submissions. On a change the
// displayed items are cleared and the page cursor reset.
func (f *Feedback) SetFilter(filter string) {
	if f.view.SetFilter(filter) {
		f.Clear()
	}
}

// SetPage moves the page cursor. Call Fetch afterwards.
func (f *Feedback) SetPage(page int) { f.view.SetPage(page) }

// Fetch loads the current page of submissions for the active filter.
func (f *Feedback) Fetch(ctx context.Context) error {
	return f.FetchList(ctx, func(ctx context.Context) ([]models.FeedbackEntry, store.Pagination, error) {
		params := url.Values{}
		params.Set("page", strconv.Itoa(f.view.Page))
		if f.view.Filter != "" {
			params.Set("status", f.view.Filter)
		}
		resp, err := f.client.Get(ctx, "/dashboard/feedback/", params)
		if err != nil {
			return nil, store.Pagination{}, err
		}
		page, err := api.DecodePage[models.FeedbackEntry](resp)
		if err != nil {
			return nil, store.Pagination{}, err
		}
		return page.Results, store.Pagination{
			Count:       page.Count,
			Page:        f.view.Page,
			HasNext:     page.Next != nil,
			HasPrevious: page.Previous != nil,
		}, nil
	})
}

// MarkResponded records that an admin has handled one submission. The
// server's is_responded is applied verbatim, same protocol as the user
// block toggle.
func (f *Feedback) MarkResponded(ctx context.Context, id int64) (*models.RespondResult, error) {
	var result models.RespondResult
	err := f.Mutate(ctx, id, func(ctx context.Context) (store.Commit[models.FeedbackEntry], error) {
		resp, err := f.client.Post(ctx, fmt.Sprintf("/dashboard/feedback/%d/respond/", id), nil)
		if err != nil {
			return nil, err
		}
		if err := api.AsError(resp); err != nil {
			return nil, err
		}
		if err := resp.Decode(&result); err != nil {
			return nil, err
		}
		return store.CommitUpdate(feedbackID, id, func(e *models.FeedbackEntry) {
			e.IsResponded = result.IsResponded
		}), nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
