package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/wadjakorntonsri/folio/pkg/app"
	"github.com/wadjakorntonsri/folio/pkg/config"
	"github.com/wadjakorntonsri/folio/pkg/core/domain"
	"github.com/wadjakorntonsri/folio/pkg/logger"
)

// importLink accepts both hand-written files and the output of export
type importLink struct {
	domain.LinkFields
	IsActive *bool `json:"is_active,omitempty"`
}

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportProfile := exportCmd.String("profile", "", "profile id whose links to export")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importProfile := importCmd.String("profile", "", "profile id to append links to")
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	lg := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()

	var run func(*app.App) error
	switch os.Args[1] {
	case "export":
		_ = exportCmd.Parse(os.Args[2:])
		if *exportProfile == "" {
			exportCmd.PrintDefaults()
			os.Exit(1)
		}
		run = func(a *app.App) error { return doExport(ctx, a, *exportProfile) }
	case "import":
		_ = importCmd.Parse(os.Args[2:])
		if *importProfile == "" || *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		run = func(a *app.App) error { return doImport(ctx, a, lg, *importProfile, *importFile) }
	default:
		fmt.Fprintln(os.Stderr, "expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to open store", logger.Error(err))
	}
	defer a.Close()

	if err := run(a); err != nil {
		lg.Error(os.Args[1]+" failed", logger.Error(err))
		a.Close()
		os.Exit(1)
	}
}

func doExport(ctx context.Context, a *app.App, profileID string) error {
	if _, err := a.Profiles.GetProfile(ctx, profileID); err != nil {
		return err
	}

	links, err := a.Links.List(ctx, profileID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(links)
}

// doImport appends the file's links after the profile's existing ones, in
// file order. A row that fails validation is logged and skipped.
func doImport(ctx context.Context, a *app.App, lg logger.Logger, profileID, filename string) error {
	if _, err := a.Profiles.GetProfile(ctx, profileID); err != nil {
		return err
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open %s: %w", filename, err)
	}
	defer file.Close()

	var rows []importLink
	if err := json.NewDecoder(file).Decode(&rows); err != nil {
		return fmt.Errorf("decode %s: %w", filename, err)
	}

	count := 0
	for i, row := range rows {
		link, err := a.Links.Add(ctx, profileID, row.LinkFields)
		if err != nil {
			if domain.IsValidation(err) {
				lg.Warn("skipping link", logger.Int("row", i), logger.String("title", row.Title), logger.Error(err))
				continue
			}
			return err
		}
		if row.IsActive != nil && !*row.IsActive {
			if _, err := a.Links.ToggleActive(ctx, profileID, link.ID); err != nil {
				return err
			}
		}
		count++
	}

	lg.Info("import finished", logger.Int("imported", count), logger.Int("skipped", len(rows)-count))
	return nil
}
