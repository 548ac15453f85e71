// Package quizdesk is a Go client SDK for the QuizDesk admin dashboard API.
//
// The entry point is the Dashboard handle, which wires one HTTP client and
// one authenticated session and hands out typed resource stores: Users,
// Content, Plans, Feedback, Account and Stats. Each store owns the fetch and
// mutation protocol for its resource kind (see pkg/store) so that callers
// only deal with domain operations.
//
//	dash := quizdesk.New("http://localhost:8000/api")
//	if _, err := dash.Session().Login(ctx, email, password); err != nil {
//		return err
//	}
//	if err := dash.Users().Fetch(ctx); err != nil {
//		return err
//	}
//	for _, u := range dash.Users().Visible() {
//		fmt.Println(u.FullName, u.Status())
//	}
package quizdesk

import (
	"net/http"
	"sync"

	"github.com/quizdesk/quizdesk-go/pkg/api"
	"github.com/quizdesk/quizdesk-go/pkg/logger"
	"github.com/quizdesk/quizdesk-go/pkg/session"
)

// Dashboard is the root handle. It is safe for concurrent use; the typed
// stores are created on first access and shared afterwards.
type Dashboard struct {
	client   *api.Client
	session  *session.Session
	log      logger.Logger
	onChange func()

	mu       sync.Mutex
	users    *Users
	content  *Content
	plans    *Plans
	feedback *Feedback
	account  *Account
	stats    *Stats
}

// Option configures a Dashboard.
type Option func(*options)

type options struct {
	httpClient *http.Client
	storage    session.Storage
	log        logger.Logger
	onChange   func()
}

// WithHTTPClient replaces the underlying HTTP client, e.g. to install a
// recording transport in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithStorage sets the credential storage. Defaults to in-memory storage,
// which forgets the login when the process exits.
func WithStorage(s session.Storage) Option {
	return func(o *options) { o.storage = s }
}

// WithLogger sets the logger shared by the client, the session and every
// store.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithOnChange registers a callback fired after every store state
// transition. UI layers use this as their re-render signal.
func WithOnChange(fn func()) Option {
	return func(o *options) { o.onChange = fn }
}

// New creates a Dashboard for the given API base URL, e.g.
// "http://localhost:8000/api".
func New(baseURL string, opts ...Option) *Dashboard {
	o := &options{
		storage: session.NewMemoryStorage(),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	client := api.NewClient(baseURL)
	client.Logger = o.log
	if o.httpClient != nil {
		client.HTTPClient = o.httpClient
	}

	sess := session.New(client, o.storage, o.log)
	client.Tokens = sess.Token

	return &Dashboard{
		client:   client,
		session:  sess,
		log:      o.log,
		onChange: o.onChange,
	}
}

// Session returns the shared authentication session.
func (d *Dashboard) Session() *session.Session { return d.session }

// Client returns the underlying API client.
func (d *Dashboard) Client() *api.Client { return d.client }

// Guard builds a route guard over the shared session.
func (d *Dashboard) Guard(opts ...session.GuardOption) *session.Guard {
	return session.NewGuard(d.session, opts...)
}

// Users returns the user management store.
func (d *Dashboard) Users() *Users {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.users == nil {
		d.users = newUsers(d.client, d.log, d.onChange)
	}
	return d.users
}

// Content returns the content moderation store.
func (d *Dashboard) Content() *Content {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.content == nil {
		d.content = newContent(d.client, d.log, d.onChange)
	}
	return d.content
}

// Plans returns the subscription plan store.
func (d *Dashboard) Plans() *Plans {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.plans == nil {
		d.plans = newPlans(d.client, d.log, d.onChange)
	}
	return d.plans
}

// Feedback returns the feedback triage store.
func (d *Dashboard) Feedback() *Feedback {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.feedback == nil {
		d.feedback = newFeedback(d.client, d.log, d.onChange)
	}
	return d.feedback
}

// Account returns the admin account and settings manager.
func (d *Dashboard) Account() *Account {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.account == nil {
		d.account = newAccount(d.client, d.session, d.log)
	}
	return d.account
}

// Stats returns the dashboard statistics fetcher.
func (d *Dashboard) Stats() *Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stats == nil {
		d.stats = newStats(d.client)
	}
	return d.stats
}
