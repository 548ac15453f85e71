// Command quizdesk is a terminal client for the QuizDesk admin dashboard.
// It drives the same SDK stores the dashboard UI uses, with credentials
// persisted under the XDG config directory between invocations.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"

	quizdesk "github.com/quizdesk/quizdesk-go"
	"github.com/quizdesk/quizdesk-go/pkg/logger"
	"github.com/quizdesk/quizdesk-go/pkg/models"
	"github.com/quizdesk/quizdesk-go/pkg/session"
	"github.com/quizdesk/quizdesk-go/pkg/store"
)

func main() {
	// Missing .env is fine; flags and real env still apply.
	_ = godotenv.Load()

	app := cli.NewApp()
	app.Name = "quizdesk"
	app.Usage = "QuizDesk admin dashboard client"
	app.Version = versioninfo.Short()

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "api-url",
			Usage:   "base URL of the QuizDesk API",
			Value:   "http://localhost:8000/api",
			EnvVars: []string{"QUIZDESK_API_URL"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "log every API request",
			EnvVars: []string{"QUIZDESK_VERBOSE"},
		},
	}
	app.Commands = []*cli.Command{
		loginCmd,
		logoutCmd,
		whoamiCmd,
		usersCmd,
		contentCmd,
		plansCmd,
		feedbackCmd,
		statsCmd,
		policyCmd,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// getDashboard wires the SDK handle with file-backed credentials and a
// console logger.
func getDashboard(cctx *cli.Context) (*quizdesk.Dashboard, error) {
	storage, err := session.DefaultFileStorage()
	if err != nil {
		return nil, fmt.Errorf("opening credential storage: %w", err)
	}

	level := zerolog.WarnLevel
	if cctx.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	return quizdesk.New(cctx.String("api-url"),
		quizdesk.WithStorage(storage),
		quizdesk.WithLogger(logger.FromZerolog(zl)),
	), nil
}

func argID(cctx *cli.Context) (int64, error) {
	raw := cctx.Args().First()
	if raw == "" {
		return 0, fmt.Errorf("an id argument is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

var loginCmd = &cli.Command{
	Name:      "login",
	Usage:     "authenticate and store credentials",
	ArgsUsage: "<email> <password>",
	Action: func(cctx *cli.Context) error {
		email := cctx.Args().Get(0)
		password := cctx.Args().Get(1)

		dash, err := getDashboard(cctx)
		if err != nil {
			return err
		}
		res, err := dash.Session().Login(cctx.Context, email, password)
		if err != nil {
			return err
		}
		if res.User != nil {
			fmt.Printf("logged in as %s (%s)\n", res.User.FullName, res.User.Email)
		} else {
			fmt.Println("logged in")
		}
		return nil
	},
}

var logoutCmd = &cli.Command{
	Name:  "logout",
	Usage: "invalidate the session and forget credentials",
	Action: func(cctx *cli.Context) error {
		dash, err := getDashboard(cctx)
		if err != nil {
			return err
		}
		dash.Session().Logout(cctx.Context)
		fmt.Println("logged out")
		return nil
	},
}

var whoamiCmd = &cli.Command{
	Name:  "whoami",
	Usage: "print the stored identity",
	Action: func(cctx *cli.Context) error {
		dash, err := getDashboard(cctx)
		if err != nil {
			return err
		}
		guard := dash.Guard(session.RequireAdmin())
		if guard.Check() != session.Authenticated {
			return fmt.Errorf("not logged in (redirect: %s)", guard.RedirectTo())
		}
		id := dash.Session().Identity()
		if id == nil {
			fmt.Println("logged in (identity not cached)")
			return nil
		}
		return printJSON(id)
	},
}

var usersCmd = &cli.Command{
	Name:  "users",
	Usage: "user management",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Usage: "list students",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "filter", Value: quizdesk.FilterAll, Usage: "all, active or blocked"},
				&cli.IntFlag{Name: "page", Value: 1},
				&cli.StringFlag{Name: "search", Usage: "narrow by name or email"},
			},
			Action: func(cctx *cli.Context) error {
				dash, err := getDashboard(cctx)
				if err != nil {
					return err
				}
				users := dash.Users()
				users.SetFilter(cctx.String("filter"))
				users.SetPage(cctx.Int("page"))
				users.SetSearch(cctx.String("search"))
				if err := users.Fetch(cctx.Context); err != nil {
					return err
				}

				tw := newTable()
				fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tJOINED\tSTATUS")
				for _, u := range users.Visible() {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.FullName, u.Email, u.JoinDate, u.Status())
				}
				tw.Flush()
				printPagination(users.Pagination())
				return nil
			},
		},
		{
			Name:      "toggle-block",
			Usage:     "block or unblock a student",
			ArgsUsage: "<id>",
			Action: func(cctx *cli.Context) error {
				id, err := argID(cctx)
				if err != nil {
					return err
				}
				dash, err := getDashboard(cctx)
				if err != nil {
					return err
				}
				res, err := dash.Users().ToggleBlock(cctx.Context, id)
				if err != nil {
					return err
				}
				fmt.Println(res.Message)
				return nil
			},
		},
	},
}

var contentCmd = &cli.Command{
	Name:  "content",
	Usage: "content moderation",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "tab", Value: string(models.ContentQuizzes), Usage: "quizzes or flashcards"},
	},
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Usage: "list generated content",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "page", Value: 1},
			},
			Action: func(cctx *cli.Context) error {
				dash, err := getDashboard(cctx)
				if err != nil {
					return err
				}
				content := dash.Content()
				content.SetTab(models.ContentKind(cctx.String("tab")))
				content.SetPage(cctx.Int("page"))
				if err := content.Fetch(cctx.Context); err != nil {
					return err
				}

				tw := newTable()
				fmt.Fprintln(tw, "ID\tTITLE\tSOURCE\tCREATED")
				for _, it := range content.Items() {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", it.ID, it.Title, it.SourceFile, it.CreatedDate)
				}
				tw.Flush()
				printPagination(content.Pagination())
				return nil
			},
		},
		{
			Name:      "delete",
			Usage:     "delete one item from the active tab",
			ArgsUsage: "<id>",
			Action: func(cctx *cli.Context) error {
				id, err := argID(cctx)
				if err != nil {
					return err
				}
				dash, err := getDashboard(cctx)
				if err != nil {
					return err
				}
				content := dash.Content()
				content.SetTab(models.ContentKind(cctx.String("tab")))
				if err := content.Delete(cctx.Context, id); err != nil {
					return err
				}
				fmt.Println("deleted")
				return nil
			},
		},
	},
}

var plansCmd = &cli.Command{
	Name:  "plans",
	Usage: "subscription plans",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Usage: "list plans",
			Action: func(cctx *cli.Context) error {
				dash, err := getDashboard(cctx)
				if err != nil {
					return err
				}
				plans := dash.Plans()
				if err := plans.Fetch(cctx.Context); err != nil {
					return err
				}
				tw := newTable()
				fmt.Fprintln(tw, "ID\tNAME\tPRICE\tDURATION\tSUBSCRIBERS")
				for _, p := range plans.Items() {
					fmt.Fprintf(tw, "%d\t%s\t%.2f %s\t%s\t%d\n", p.ID, p.Name, p.Price, p.Currency, p.Duration, p.Subscribers)
				}
				tw.Flush()
				return nil
			},
		},
		{
			Name:      "delete",
			Usage:     "delete a plan",
			ArgsUsage: "<id>",
			Action: func(cctx *cli.Context) error {
				id, err := argID(cctx)
				if err != nil {
					return err
				}
				dash, err := getDashboard(cctx)
				if err != nil {
					return err
				}
				if err := dash.Plans().Delete(cctx.Context, id); err != nil {
					return err
				}
				fmt.Println("deleted")
				return nil
			},
		},
		{
			Name:  "stats",
			Usage: "revenue numbers and trend",
			Action: func(cctx *cli.Context) error {
				dash, err := getDashboard(cctx)
				if err != nil {
					return err
				}
				stats, err := dash.Plans().Stats(cctx.Context)
				if err != nil {
					return err
				}
				return printJSON(stats)
			},
		},
	},
}

var feedbackCmd = &cli.Command{
	Name:  "feedback",
	Usage: "feedback triage",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Usage: "list submissions",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "filter", Value: quizdesk.FeedbackNew, Usage: "new or responded"},
				&cli.IntFlag{Name: "page", Value: 1},
			},
			Action: func(cctx *cli.Context) error {
				dash, err := getDashboard(cctx)
				if err != nil {
					return err
				}
				fb := dash.Feedback()
				fb.SetFilter(cctx.String("filter"))
				fb.SetPage(cctx.Int("page"))
				if err := fb.Fetch(cctx.Context); err != nil {
					return err
				}

				now := time.Now()
				tw := newTable()
				fmt.Fprintln(tw, "ID\tFROM\tRATING\tISSUES\tWHEN")
				for _, e := range fb.Items() {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%v\t%s\n",
						e.ID, e.UserName, e.Rating, e.IssueLabels(), models.TimeAgo(e.CreatedAt, now))
				}
				tw.Flush()
				printPagination(fb.Pagination())
				return nil
			},
		},
		{
			Name:      "respond",
			Usage:     "mark a submission as responded",
			ArgsUsage: "<id>",
			Action: func(cctx *cli.Context) error {
				id, err := argID(cctx)
				if err != nil {
					return err
				}
				dash, err := getDashboard(cctx)
				if err != nil {
					return err
				}
				res, err := dash.Feedback().MarkResponded(cctx.Context, id)
				if err != nil {
					return err
				}
				fmt.Println(res.Message)
				return nil
			},
		},
	},
}

var statsCmd = &cli.Command{
	Name:  "stats",
	Usage: "dashboard numbers",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "analytics", Usage: "show the analytics trends instead"},
	},
	Action: func(cctx *cli.Context) error {
		dash, err := getDashboard(cctx)
		if err != nil {
			return err
		}
		if cctx.Bool("analytics") {
			a, err := dash.Stats().Analytics(cctx.Context)
			if err != nil {
				return err
			}
			return printJSON(a)
		}
		st, err := dash.Stats().Dashboard(cctx.Context)
		if err != nil {
			return err
		}
		return printJSON(st)
	},
}

var policyCmd = &cli.Command{
	Name:  "policy",
	Usage: "privacy policy document",
	Subcommands: []*cli.Command{
		{
			Name:  "show",
			Usage: "print the current policy",
			Action: func(cctx *cli.Context) error {
				dash, err := getDashboard(cctx)
				if err != nil {
					return err
				}
				policy, err := dash.Account().PrivacyPolicy(cctx.Context)
				if err != nil {
					return err
				}
				fmt.Printf("%s (updated %s)\n\n%s\n", policy.Title, policy.UpdatedAt, policy.Content)
				return nil
			},
		},
		{
			Name:  "set",
			Usage: "replace the policy from a markup file",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Value: "Privacy Policy"},
				&cli.StringFlag{Name: "file", Required: true, Usage: "path to the HTML content"},
			},
			Action: func(cctx *cli.Context) error {
				content, err := os.ReadFile(cctx.String("file"))
				if err != nil {
					return err
				}
				dash, err := getDashboard(cctx)
				if err != nil {
					return err
				}
				policy, err := dash.Account().UpdatePrivacyPolicy(cctx.Context, cctx.String("title"), string(content))
				if err != nil {
					return err
				}
				fmt.Printf("updated %s at %s\n", policy.Title, policy.UpdatedAt)
				return nil
			},
		},
	},
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printPagination(pg store.Pagination) {
	fmt.Printf("page %d, %d total", pg.Page, pg.Count)
	if pg.HasNext {
		fmt.Print(" (more available)")
	}
	fmt.Println()
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
