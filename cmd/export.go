package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lessonbird/timetable/app"
	"github.com/lessonbird/timetable/config"
	"github.com/lessonbird/timetable/infra/logger"
	"github.com/lessonbird/timetable/pkg/export"
)

var exportFlags struct {
	schoolID string
	termID   string
	format   string
	out      string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the timetable of one school/term",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.schoolID, "school", "", "school id")
	exportCmd.Flags().StringVar(&exportFlags.termID, "term", "", "term id")
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "json", "output format: json, csv or xlsx")
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("export-command").Errorf("service close: %v", err)
		}
	}()

	placements, err := svc.List(context.Background(), exportFlags.schoolID, exportFlags.termID)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportFlags.out != "" {
		f, err := os.Create(exportFlags.out)
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.New("export-command").Errorf("output close: %v", err)
			}
		}()
		w = f
	}

	switch exportFlags.format {
	case "json":
		return export.WriteJSON(w, placements)
	case "csv":
		return export.WriteCSV(w, placements)
	case "xlsx":
		return export.WriteXLSX(w, placements)
	default:
		return fmt.Errorf("unknown format %s", exportFlags.format)
	}
}
