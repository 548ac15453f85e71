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

// Plans is the subscription plan store: plan cards with create, update and
// delete, plus the revenue statistics shown alongside them.
type Plans struct {
	*store.Store[models.SubscriptionPlan]
	view   *store.View
	client *api.Client
}

func planID(p models.SubscriptionPlan) int64 { return p.ID }

func newPlans(client *api.Client, log logger.Logger, onChange func()) *Plans {
	opts := []store.Option[models.SubscriptionPlan]{store.WithLogger[models.SubscriptionPlan](log)}
	if onChange != nil {
		opts = append(opts, store.WithOnChange[models.SubscriptionPlan](onChange))
	}
	return &Plans{
		Store:  store.New(planID, opts...),
		view:   store.NewView(),
		client: client,
	}
}

// View returns the mutable view state.
func (p *Plans) View() *store.View { return p.view }

// SetPage moves the page cursor. Call Fetch afterwards.
func (p *Plans) SetPage(page int) { p.view.SetPage(page) }

// Fetch loads the current page of plans.
func (p *Plans) Fetch(ctx context.Context) error {
	return p.FetchList(ctx, func(ctx context.Context) ([]models.SubscriptionPlan, store.Pagination, error) {
		params := url.Values{}
		params.Set("page", strconv.Itoa(p.view.Page))
		resp, err := p.client.Get(ctx, "/dashboard/plans/", params)
		if err != nil {
			return nil, store.Pagination{}, err
		}
		page, err := api.DecodePage[models.SubscriptionPlan](resp)
		if err != nil {
			return nil, store.Pagination{}, err
		}
		return page.Results, store.Pagination{
			Count:       page.Count,
			Page:        p.view.Page,
			HasNext:     page.Next != nil,
			HasPrevious: page.Previous != nil,
		}, nil
	})
}

// Create submits a new plan. The server assigns the id and owns derived
// fields such as the subscriber count; its returned copy is appended to the
// stored page.
func (p *Plans) Create(ctx context.Context, plan models.SubscriptionPlan) (*models.SubscriptionPlan, error) {
	var created models.SubscriptionPlan
	err := p.Mutate(ctx, 0, func(ctx context.Context) (store.Commit[models.SubscriptionPlan], error) {
		resp, err := p.client.Post(ctx, "/dashboard/plans/", plan)
		if err != nil {
			return nil, err
		}
		if err := api.AsError(resp); err != nil {
			return nil, err
		}
		if err := resp.Decode(&created); err != nil {
			return nil, err
		}
		return func(items []models.SubscriptionPlan, pg *store.Pagination) []models.SubscriptionPlan {
			pg.Count++
			return append(items, created)
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces a plan with the submitted fields. The server's returned
// copy is stored, not the submitted one.
func (p *Plans) Update(ctx context.Context, plan models.SubscriptionPlan) (*models.SubscriptionPlan, error) {
	var updated models.SubscriptionPlan
	err := p.Mutate(ctx, plan.ID, func(ctx context.Context) (store.Commit[models.SubscriptionPlan], error) {
		resp, err := p.client.Put(ctx, fmt.Sprintf("/dashboard/plans/%d/", plan.ID), plan)
		if err != nil {
			return nil, err
		}
		if err := api.AsError(resp); err != nil {
			return nil, err
		}
		if err := resp.Decode(&updated); err != nil {
			return nil, err
		}
		return store.CommitReplace(planID, updated), nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a plan. 204, bodiless.
func (p *Plans) Delete(ctx context.Context, id int64) error {
	return p.Mutate(ctx, id, func(ctx context.Context) (store.Commit[models.SubscriptionPlan], error) {
		resp, err := p.client.Delete(ctx, fmt.Sprintf("/dashboard/plans/%d/", id))
		if err != nil {
			return nil, err
		}
		if err := api.AsError(resp); err != nil {
			return nil, err
		}
		return store.CommitDelete(planID, id), nil
	})
}

// Stats fetches the subscription revenue numbers and trend. Plain fetch,
// outside the list store protocol.
func (p *Plans) Stats(ctx context.Context) (*models.SubscriptionStats, error) {
	resp, err := p.client.Get(ctx, "/dashboard/subscriptions/stats/", nil)
	if err != nil {
		return nil, err
	}
	if err := api.AsError(resp); err != nil {
		return nil, err
	}
	var stats models.SubscriptionStats
	if err := resp.Decode(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentSubscriptions fetches the recent user-plan rows.
func (p *Plans) RecentSubscriptions(ctx context.Context) ([]models.UserPlan, error) {
	resp, err := p.client.Get(ctx, "/dashboard/subscriptions/recent/", nil)
	if err != nil {
		return nil, err
	}
	page, err := api.DecodePage[models.UserPlan](resp)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}
