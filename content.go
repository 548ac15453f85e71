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

// Content is the content moderation store. It serves two sibling
// collections, quizzes and flashcards, selected by tab; each tab maps to its
// own backend endpoint, and switching tabs clears the displayed rows so a
// quiz row is never shown under the flashcards tab while the replacement
// fetch is outstanding.
type Content struct {
	*store.Store[models.ContentItem]
	view   *store.View
	client *api.Client
}

func contentID(c models.ContentItem) int64 { return c.ID }

func newContent(client *api.Client, log logger.Logger, onChange func()) *Content {
	opts := []store.Option[models.ContentItem]{store.WithLogger[models.ContentItem](log)}
	if onChange != nil {
		opts = append(opts, store.WithOnChange[models.ContentItem](onChange))
	}
	view := store.NewView()
	view.Tab = string(models.ContentQuizzes)
	return &Content{
		Store:  store.New(contentID, opts...),
		view:   view,
		client: client,
	}
}

// View returns the mutable view state.
func (c *Content) View() *store.View { return c.view }

// Tab returns the active content kind.
func (c *Content) Tab() models.ContentKind { return models.ContentKind(c.view.Tab) }

// SetTab switches between quizzes and flashcards. On a change the displayed
// items are cleared and the page cursor reset.
func (c *Content) SetTab(kind models.ContentKind) {
	if c.view.SetTab(string(kind)) {
		c.Clear()
	}
}

// SetPage moves the page cursor. Call Fetch afterwards.
func (c *Content) SetPage(page int) { c.view.SetPage(page) }

// SetSearch updates the free-text query for Visible.
func (c *Content) SetSearch(q string) { c.view.SetSearch(q) }

func (c *Content) endpoint() string {
	return "/dashboard/" + c.view.Tab + "/"
}

// Fetch loads the current page of the active tab's collection.
func (c *Content) Fetch(ctx context.Context) error {
	return c.FetchList(ctx, func(ctx context.Context) ([]models.ContentItem, store.Pagination, error) {
		params := url.Values{}
		params.Set("page", strconv.Itoa(c.view.Page))
		resp, err := c.client.Get(ctx, c.endpoint(), params)
		if err != nil {
			return nil, store.Pagination{}, err
		}
		page, err := api.DecodePage[models.ContentItem](resp)
		if err != nil {
			return nil, store.Pagination{}, err
		}
		return page.Results, store.Pagination{
			Count:       page.Count,
			Page:        c.view.Page,
			HasNext:     page.Next != nil,
			HasPrevious: page.Previous != nil,
		}, nil
	})
}

// Visible returns the fetched page narrowed by the search query, matching
// against title and source file name.
func (c *Content) Visible() []models.ContentItem {
	return store.ApplySearch(c.view, c.Items(), func(it models.ContentItem) []string {
		return []string{it.Title, it.SourceFile}
	})
}

// Delete removes one item from the active tab's collection. The backend
// answers a bodiless 204; on success the row is dropped and the total count
// decremented.
func (c *Content) Delete(ctx context.Context, id int64) error {
	return c.Mutate(ctx, id, func(ctx context.Context) (store.Commit[models.ContentItem], error) {
		resp, err := c.client.Delete(ctx, fmt.Sprintf("%s%d/", c.endpoint(), id))
		if err != nil {
			return nil, err
		}
		if err := api.AsError(resp); err != nil {
			return nil, err
		}
		return store.CommitDelete(contentID, id), nil
	})
}
