package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/taisugar/toolkit/config"
	"github.com/taisugar/toolkit/dailynecessities"
	"github.com/taisugar/toolkit/report"
	"github.com/taisugar/toolkit/server"
	"github.com/taisugar/toolkit/tscred"
)

// NewReporter wires the backend clients into a report service. Delivery
// statistics stay unavailable when the purchase system account cannot be
// read.
func NewReporter(ctx context.Context, cfg *config.Config) (server.Reporter, error) {
	needs, err := tscred.New(tscred.Config{BaseURL: cfg.TSCRED.BaseURL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("tscred client: %w", err)
	}

	deps := report.Dependencies{
		ItemNeeds: needs,
		Templates: report.NewDirTemplates(os.DirFS(cfg.TemplateDir)),
	}

	purchases, err := purchaseSource(cfg)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("purchase system unavailable")
	} else {
		deps.Purchases = purchases
	}

	return report.NewService(deps), nil
}

func purchaseSource(cfg *config.Config) (*dailynecessities.Client, error) {
	creds, err := config.NewCredentials(cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}
	account, err := creds.Account(cfg.DailyNecessities.Profile)
	if err != nil {
		return nil, err
	}

	return dailynecessities.New(dailynecessities.Config{
		BaseURL:  cfg.DailyNecessities.BaseURL,
		Username: account.UserID,
		Password: account.Password,
		Timeout:  cfg.Timeout,
	})
}
