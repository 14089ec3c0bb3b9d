package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/taisugar/toolkit/report"
	"github.com/taisugar/toolkit/roc"
	"github.com/taisugar/toolkit/server"
)

type deliveryRecordCmd struct {
	cli *CLI

	month      string
	reportDate string
	format     string
	outputDir  string
}

func newDeliveryRecordCmd(cli *CLI) *cobra.Command {
	dc := &deliveryRecordCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "delivery-record [freebie...]",
		Short: "Summarise a month of freebie purchases per station",
		RunE:  dc.run,
	}

	cmd.Flags().StringVarP(&dc.month, "month", "m", "", "month as 2025-09 or 114-09 (default: current month)")
	cmd.Flags().StringVar(&dc.reportDate, "report-date", "", "report date printed on the record")
	cmd.Flags().StringVarP(&dc.format, "format", "f", string(report.XLSX), "output format: xlsx or csv")
	cmd.Flags().StringVarP(&dc.outputDir, "output-dir", "o", "", "directory for the generated files (default: config)")

	return cmd
}

func (dc *deliveryRecordCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	freebies, err := parseFreebies(args)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(dc.format)
	if err != nil {
		return err
	}
	year, month, err := parseMonth(dc.month)
	if err != nil {
		return err
	}
	reportDate, err := parseDateFlag("report-date", dc.reportDate)
	if err != nil {
		return err
	}
	dir, err := dc.cli.outputDir(dc.outputDir)
	if err != nil {
		return err
	}

	reports, err := dc.cli.newReporter(ctx, dc.cli.cfg)
	if err != nil {
		return err
	}

	bar := dc.cli.progress(len(freebies), "delivery records")
	var errs []error
	for _, fb := range freebies {
		bar.Describe(fb.Label())

		path, err := dc.generate(cmd, reports, report.DeliveryRequest{
			Freebie:    fb,
			Year:       year,
			Month:      month,
			ReportDate: reportDate,
		}, format, dir)
		_ = bar.Add(1)
		if err != nil {
			logger.Error().Err(err).Str("freebie", fb.Slug()).Msg("delivery record failed")
			errs = append(errs, err)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	_ = bar.Finish()

	return errors.Join(errs...)
}

func (dc *deliveryRecordCmd) generate(cmd *cobra.Command, reports server.Reporter, req report.DeliveryRequest, format report.Format, dir string) (string, error) {
	record, err := reports.DeliveryRecord(cmd.Context(), req)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, report.DeliveryFilename(record, format))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := report.WriteDelivery(file, record, format); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, file.Close()
}

// parseMonth reads "2025-09" or the ROC "114-09". An empty string is the
// zero month, which the report service resolves to the current one.
func parseMonth(s string) (int, time.Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}

	y, m, ok := strings.Cut(s, "-")
	year, yerr := strconv.Atoi(y)
	month, merr := strconv.Atoi(m)
	if !ok || yerr != nil || merr != nil || month < 1 || month > 12 || year < 1 {
		return 0, 0, fmt.Errorf("--month %q: want YYYY-MM or ROC YYY-MM", s)
	}
	if len(y) <= 3 {
		year += roc.Offset
	}
	return year, time.Month(month), nil
}
