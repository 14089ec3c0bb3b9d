package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/taisugar/toolkit/freebie"
	"github.com/taisugar/toolkit/itemneeds"
	"github.com/taisugar/toolkit/purchaseorder"
	"github.com/taisugar/toolkit/report"
	"github.com/taisugar/toolkit/sample"
)

type previewCmd struct {
	cli *CLI

	template string
	skeleton bool
	seed     uint64
	decoys   int
	output   string
}

func newPreviewCmd(cli *CLI) *cobra.Command {
	pc := &previewCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "preview <freebie>",
		Short: "Fill a purchase-order template with made up item needs",
		Long: `Fill a purchase-order template with made up item needs.

Quantities are generated for every station found in the template, so a
template can be checked without access to TSCRED. With --skeleton a bare
template with the central region stations is written instead.`,
		Args: cobra.ExactArgs(1),
		RunE: pc.run,
	}

	cmd.Flags().StringVarP(&pc.template, "template", "t", "", "template file (default: the freebie's template in template_dir)")
	cmd.Flags().BoolVar(&pc.skeleton, "skeleton", false, "write a bare template instead of a preview")
	cmd.Flags().Uint64Var(&pc.seed, "seed", 0, "seed for reproducible quantities (0 picks one)")
	cmd.Flags().IntVar(&pc.decoys, "decoys", 3, "number of unrelated item columns")
	cmd.Flags().StringVar(&pc.output, "output", "", "output file (default: a name in output_dir)")

	return cmd
}

func (pc *previewCmd) run(cmd *cobra.Command, args []string) error {
	fb, err := freebie.Parse(args[0])
	if err != nil {
		return err
	}

	var doc *excelize.File
	if pc.skeleton {
		doc, err = sample.Template(fb, sample.Stations)
	} else {
		doc, err = pc.preview(cmd, fb)
	}
	if err != nil {
		return err
	}
	defer doc.Close()

	path, err := pc.outputPath(fb)
	if err != nil {
		return err
	}
	if err := doc.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func (pc *previewCmd) preview(cmd *cobra.Command, fb freebie.Freebie) (*excelize.File, error) {
	tmpl, err := pc.openTemplate(fb)
	if err != nil {
		return nil, err
	}
	defer tmpl.Close()

	stations, err := sample.TemplateStations(tmpl)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	needs := sample.ItemNeeds(stations, sample.Options{Decoys: pc.decoys, OrderDate: now, Seed: pc.seed})
	zerolog.Ctx(cmd.Context()).Debug().
		Int("stations", len(stations)).
		Int("columns", len(needs.DynamicColumns)).
		Msg("generated item needs")

	return purchaseorder.Generate(tmpl, []*itemneeds.ItemNeeds{needs}, fb, now, purchaseorder.DefaultOrderNumber(now))
}

func (pc *previewCmd) openTemplate(fb freebie.Freebie) (*excelize.File, error) {
	if pc.template != "" {
		return excelize.OpenFile(pc.template)
	}
	return report.NewDirTemplates(os.DirFS(pc.cli.cfg.TemplateDir)).Open(fb)
}

func (pc *previewCmd) outputPath(fb freebie.Freebie) (string, error) {
	if pc.output != "" {
		return pc.output, nil
	}
	dir, err := pc.cli.outputDir("")
	if err != nil {
		return "", err
	}
	if pc.skeleton {
		return filepath.Join(dir, fb.TemplateName()), nil
	}
	return filepath.Join(dir, "預覽_"+report.PurchaseOrderFilename(fb, "sample")), nil
}
