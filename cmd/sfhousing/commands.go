package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/sfhousing/chart"
	"github.com/YuminosukeSato/sfhousing/dashboard"
	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/pkg/config"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
	"github.com/YuminosukeSato/sfhousing/pkg/log"
	"github.com/YuminosukeSato/sfhousing/report"
	"github.com/YuminosukeSato/sfhousing/server"
)

// app is the state shared by all subcommands after configuration is loaded.
type app struct {
	envFile   string
	dataDir   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "sfhousing",
		Short:         "Housing price and population dashboards",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file read before the environment")
	flags.StringVar(&a.dataDir, "data-dir", "", "directory holding the input CSVs (overrides SFHOUSING_DATA_DIR)")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "json or console")

	root.AddCommand(a.serveCmd(), a.renderCmd(), a.exportCmd())
	return root
}

func (a *app) setup() error {
	cfg, err := config.LoadFrom(a.envFile)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.Data.Dir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := log.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger.With(log.ComponentKey, "cli")
	return nil
}

func (a *app) load() (*dataset.Tables, error) {
	return dataset.NewLoader(a.cfg.Data.Dir,
		dataset.WithFiles(a.cfg.Data.Files()),
		dataset.WithLogger(a.logger),
	).Load()
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboards over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return server.New(a.cfg, server.WithLogger(a.logger)).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SFHOUSING_SERVER_ADDR)")
	return cmd
}

func (a *app) renderCmd() *cobra.Command {
	var (
		out           string
		state, county string
		html          bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write every housing panel as a PNG image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = a.cfg.Output.Dir
			}
			tables, err := a.load()
			if err != nil {
				return err
			}

			selector := dashboard.NewSelector(tables.Populations)
			if state == "" && county == "" {
				state, county = a.cfg.Selection.State, a.cfg.Selection.County
			}
			page, err := dashboard.Recompute(tables, selector.Resolve(state, county))
			if err != nil {
				return err
			}

			png := chart.NewPNGRenderer()
			for _, panel := range page.Panels {
				if panel.Chart == nil {
					continue
				}
				name := panel.ID + ".png"
				if panel.ID == dashboard.PanelConstruction {
					name = dashboard.ArtifactName
				}
				path := filepath.Join(out, name)
				if err := png.SavePNG(path, panel.Chart); err != nil {
					return errors.Wrapf(err, "render panel %s", panel.ID)
				}
				a.logger.Info("panel rendered", log.PanelKey, panel.ID, log.ArtifactKey, path)
			}

			if html {
				return a.renderHTML(filepath.Join(out, "dashboard.html"), page)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output directory (defaults to SFHOUSING_OUTPUT_DIR)")
	cmd.Flags().StringVar(&state, "state", "", "state of the counties panel")
	cmd.Flags().StringVar(&county, "county", "", "county of the counties panel")
	cmd.Flags().BoolVar(&html, "html", false, "also write a standalone ECharts page")
	return cmd
}

func (a *app) renderHTML(path string, page *dashboard.Page) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := (chart.EChartsRenderer{}).RenderPage(f, page.Title, page.Charts()...); err != nil {
		_ = f.Close()
		return err
	}
	a.logger.Info("page rendered", log.ArtifactKey, path)
	return errors.Wrapf(f.Close(), "close %s", path)
}

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the scatter and construction datasets to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = filepath.Join(a.cfg.Output.Dir, "sfhousing.xlsx")
			}
			tables, err := a.load()
			if err != nil {
				return err
			}
			return report.Save(out, tables)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "workbook path (defaults to sfhousing.xlsx in the output directory)")
	return cmd
}
