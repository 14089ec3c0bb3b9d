package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/taisugar/toolkit/freebie"
	"github.com/taisugar/toolkit/purchaseorder"
	"github.com/taisugar/toolkit/report"
	"github.com/taisugar/toolkit/roc"
	"github.com/taisugar/toolkit/server"
	"github.com/taisugar/toolkit/tscred"
)

type purchaseOrderCmd struct {
	cli *CLI

	centers     []string
	department  string
	display     string
	start       string
	end         string
	date        string
	orderNumber string
	outputDir   string
}

func newPurchaseOrderCmd(cli *CLI) *cobra.Command {
	pc := &purchaseOrderCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "purchase-order [freebie...]",
		Short: "Generate weekly purchase orders from TSCRED item needs",
		Long: `Generate weekly purchase orders from TSCRED item needs.

Freebies are given by slug (tissue60, tissue110, water) or label; without
arguments an order is generated for every freebie. Dates accept the ROC form
114-10-14 as well as 2025-10-14.`,
		RunE: pc.run,
	}

	cmd.Flags().StringSliceVar(&pc.centers, "center", nil, "operation center id, repeatable (default: config, then all)")
	cmd.Flags().StringVar(&pc.department, "department", "", "department id (default: config)")
	cmd.Flags().StringVar(&pc.display, "display", "", "display mode: station, date or details (default: config)")
	cmd.Flags().StringVar(&pc.start, "start", "", "first day of the report range (default: 7 days ago)")
	cmd.Flags().StringVar(&pc.end, "end", "", "last day of the report range (default: today)")
	cmd.Flags().StringVar(&pc.date, "date", "", "notification date printed on the order (default: today)")
	cmd.Flags().StringVar(&pc.orderNumber, "order-number", "", "order number (default: <month>-<week of month>)")
	cmd.Flags().StringVarP(&pc.outputDir, "output-dir", "o", "", "directory for the generated files (default: config)")

	return cmd
}

func (pc *purchaseOrderCmd) request(now time.Time) (report.PurchaseOrderRequest, error) {
	cfg := pc.cli.cfg
	req := report.PurchaseOrderRequest{
		OperationCenters: pc.centers,
		DepartmentID:     pc.department,
		DisplayMode:      tscred.DisplayMode(cfg.TSCRED.DisplayMode),
		OrderNumber:      pc.orderNumber,
	}
	if len(req.OperationCenters) == 0 {
		req.OperationCenters = cfg.TSCRED.OperationCenters
	}
	if req.DepartmentID == "" {
		req.DepartmentID = cfg.TSCRED.DepartmentID
	}
	if req.OrderNumber == "" {
		req.OrderNumber = purchaseorder.DefaultOrderNumber(now)
	}

	var err error
	if pc.display != "" {
		if req.DisplayMode, err = tscred.ParseDisplayMode(pc.display); err != nil {
			return req, err
		}
	}
	if req.Start, err = parseDateFlag("start", pc.start); err != nil {
		return req, err
	}
	if req.End, err = parseDateFlag("end", pc.end); err != nil {
		return req, err
	}
	if req.NotificationDate, err = parseDateFlag("date", pc.date); err != nil {
		return req, err
	}
	if req.Start.IsZero() != req.End.IsZero() {
		return req, errors.New("--start and --end must be given together")
	}
	return req, nil
}

func (pc *purchaseOrderCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	freebies, err := parseFreebies(args)
	if err != nil {
		return err
	}
	req, err := pc.request(time.Now())
	if err != nil {
		return err
	}
	dir, err := pc.cli.outputDir(pc.outputDir)
	if err != nil {
		return err
	}

	reports, err := pc.cli.newReporter(ctx, pc.cli.cfg)
	if err != nil {
		return err
	}

	bar := pc.cli.progress(len(freebies), "purchase orders")
	var errs []error
	for _, fb := range freebies {
		bar.Describe(fb.Label())
		req.Freebie = fb

		path, err := pc.generate(cmd, reports, req, dir)
		_ = bar.Add(1)
		if err != nil {
			logger.Error().Err(err).Str("freebie", fb.Slug()).Msg("purchase order failed")
			errs = append(errs, err)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	_ = bar.Finish()

	return errors.Join(errs...)
}

func (pc *purchaseOrderCmd) generate(cmd *cobra.Command, reports server.Reporter, req report.PurchaseOrderRequest, dir string) (string, error) {
	doc, err := reports.PurchaseOrder(cmd.Context(), req)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	path := filepath.Join(dir, report.PurchaseOrderFilename(req.Freebie, req.OrderNumber))
	if err := doc.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

func parseFreebies(args []string) ([]freebie.Freebie, error) {
	if len(args) == 0 {
		return freebie.All(), nil
	}
	freebies := make([]freebie.Freebie, 0, len(args))
	for _, arg := range args {
		fb, err := freebie.Parse(arg)
		if err != nil {
			return nil, err
		}
		freebies = append(freebies, fb)
	}
	return freebies, nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := roc.ParseAny(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return t, nil
}

// progress draws a bar on the log writer when more than one file is built.
func (cli *CLI) progress(n int, description string) *progressbar.ProgressBar {
	if n < 2 {
		return progressbar.DefaultSilent(int64(n), description)
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(cli.logs),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
