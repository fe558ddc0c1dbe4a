package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitfantasy/qr-label/internal/label/entity"
	"github.com/bitfantasy/qr-label/internal/label/service"
	"github.com/spf13/cobra"
)

func newRenderCmd(root *rootOptions) *cobra.Command {
	var input, outDir, templatePath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render labels from a csv, xlsx, yaml or json record file",
		Example: `  # Render every record in labels.csv into ./out
  labelctl render --input labels.csv --out out

  # Use a plant-specific template
  labelctl render --input labels.yaml --template plant-a.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load(templatePath)
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("open records: %w", err)
			}
			defer f.Close()

			records, err := e.services.Importer.Import(f, input)
			if err != nil {
				return err
			}
			batch, err := e.services.Label.Generate(commandContext(cmd), records)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			if err := writeArtifact(outDir, batch.PNGName, batch.PNG); err != nil {
				return err
			}
			if err := writeArtifact(outDir, batch.XLSXName, batch.XLSX); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, l := range batch.Labels {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", l.Index+1, l.Lot, l.Serial, l.Payload)
			}
			fmt.Fprintf(out, "wrote %s and %s\n", filepath.Join(outDir, batch.PNGName), filepath.Join(outDir, batch.XLSXName))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "record file (.csv, .xlsx, .yaml, .json)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&templatePath, "template", "", "template workbook, overrides label.template_path")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newTemplateCmd(root *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the active template workbook to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load("")
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			data, err := e.services.Label.Template(commandContext(cmd))
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "label_template.xlsx", "output file")
	return cmd
}

func newLotCmd(root *rootOptions) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "lot DATE",
		Short: "Print the LOT code for a production date (YYYY/MM/DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := entity.ParseDate(args[0])
			if err != nil {
				return err
			}
			months, err := service.MonthTableByName(table)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.NewLotCodeEncoder(months).Encode(d))
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "month-table", "sequential", "month table: sequential or skip_i")
	return cmd
}

func writeArtifact(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
