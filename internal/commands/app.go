package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/budget"
	"github.com/pocketledger/pocketledger/internal/category"
	"github.com/pocketledger/pocketledger/internal/config"
	"github.com/pocketledger/pocketledger/internal/goals"
	"github.com/pocketledger/pocketledger/internal/importer"
	"github.com/pocketledger/pocketledger/internal/ledger"
	"github.com/pocketledger/pocketledger/internal/logger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/store"
)

const dateLayout = "2006-01-02"

// app is the wired set of services one command invocation works with.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	out      io.Writer
	store    *store.Store
	ledger   *ledger.Service
	importer *importer.Service
	goals    *goals.Service
	budget   *budget.Service
	user     model.User
}

func openApp(ctx context.Context, opts *globalOptions, out io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	log := logger.Configure(cfg.Log.Level, cfg.Log.Format)

	if _, err := os.Stat(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("database %s not found, run pocketledger init first: %w", cfg.Database.Path, err)
	}
	catalog, err := category.Load(cfg.Categories.Path)
	if err != nil {
		return nil, err
	}
	st, err := store.OpenMigrated(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		out:      out,
		store:    st,
		ledger:   ledger.NewService(st, catalog),
		importer: importer.NewService(st, catalog),
		goals:    goals.NewService(st),
		budget:   budget.NewService(st, cfg.Budget.AlertThreshold, budget.LogNotifier{Logger: log}),
	}
	a.user, err = a.ledger.EnsureUser(ctx, cfg.User.ExternalID, cfg.User.Email, cfg.User.Name)
	if err != nil {
		st.Close()
		return nil, err
	}
	return a, nil
}

// run opens the app for cmd, calls fn and closes the app again.
func (o *globalOptions) run(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, o, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.store.Close()

	return fn(logger.WithContext(ctx, a.log), a)
}

// resolveAccount returns the account with id, or the default account when id
// is empty.
func (a *app) resolveAccount(ctx context.Context, id string) (model.Account, error) {
	if id != "" {
		return a.ledger.GetAccount(ctx, a.user.ID, id)
	}
	accts, err := a.ledger.ListAccounts(ctx, a.user.ID)
	if err != nil {
		return model.Account{}, err
	}
	for _, acct := range accts {
		if acct.IsDefault {
			return acct, nil
		}
	}
	return model.Account{}, errors.New("no default account, create one or pass --account")
}

// checkBudget runs the budget alert check. Failures only warn.
func (a *app) checkBudget(ctx context.Context) {
	sent, err := a.budget.CheckAlert(ctx, a.user.ID, time.Now())
	if err != nil {
		a.log.Warn().Err(err).Msg("budget alert check failed")
		return
	}
	if sent {
		fmt.Fprintln(a.out, "Budget alert: monthly spending has reached the alert threshold")
	}
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func parseMoney(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, model.Invalid(field, "invalid amount %q", s)
	}
	return d, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, model.Invalid(field, "expected YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

func parseType(s string) (model.TransactionType, error) {
	t := model.TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", model.Invalid("type", "must be income or expense")
	}
	return t, nil
}

func signed(t model.Transaction) string {
	return t.SignedEffect().StringFixed(2)
}
