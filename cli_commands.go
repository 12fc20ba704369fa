package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pivolan/telecom_charts/config"
	"github.com/pivolan/telecom_charts/logger"
	"github.com/pivolan/telecom_charts/metrics"
)

type rootOptions struct {
	envFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "telecom_charts",
		Short: "Telecom market share and company profile charts",
		Long: `Telecom market share and company profile charts.

Commands:
    serve      Telegram bot and upload page
    market     market share chart for one country
    profile    compare a metric across company profile sheets`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.envFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return logger.Init(logger.Config{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Dir:    cfg.LogDir,
				Out:    cmd.ErrOrStderr(),
			})
		},
	}
	root.PersistentFlags().StringVar(&opts.envFile, "config", ".env", "env file to load")

	root.AddCommand(newServeCmd(opts), newMarketCmd(), newProfileCmd())
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the upload page and, when TG_TOKEN is set, the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts.cfg)
		},
	}
}

func runServe(cfg *config.Config) error {
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}
	store := NewSessionStore(cfg.UploadDir, cfg.UploadTTL)
	stop := make(chan struct{})
	defer close(stop)
	go store.RunCleanup(time.Minute, stop)

	ws := &webServer{store: store}
	if cfg.TgToken != "" {
		bot, api, err := newTelegramBot(cfg.TgToken, store, cfg.PublicURL)
		if err != nil {
			return err
		}
		ws.notifier = bot
		go func() {
			if err := bot.run(api); err != nil {
				log.Error().Err(err).Msg("telegram bot stopped")
			}
		}()
	} else {
		log.Warn().Msg("TG_TOKEN is empty, running the upload page only")
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      newRouter(ws, logger.NewAccessLogger(logger.Config{Dir: cfg.LogDir})),
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("public_url", cfg.PublicURL).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-sigCh:
	}
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// changedArgs collects the flags set on the command line, keyed like chat selections.
func changedArgs(flags *pflag.FlagSet, skip ...string) map[string]string {
	out := map[string]string{}
	flags.Visit(func(f *pflag.Flag) {
		for _, s := range skip {
			if f.Name == s {
				return
			}
		}
		out[f.Name] = f.Value.String()
	})
	return out
}

// stageInputs unpacks archives into a temporary directory, leaving the
// originals in place. Spreadsheets are used where they are.
func stageInputs(paths ...string) ([]string, func(), error) {
	tmp, err := os.MkdirTemp("", "telecom_charts")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(tmp) }
	var files []string
	for i, p := range paths {
		if isSpreadsheet(p) {
			files = append(files, p)
			continue
		}
		// each archive gets its own dir so equal member names do not collide
		dir := filepath.Join(tmp, strconv.Itoa(i))
		staged := filepath.Join(dir, filepath.Base(p))
		if err := copyFile(p, staged); err != nil {
			cleanup()
			return nil, nil, err
		}
		unpacked, err := unpackArchive(staged)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		files = append(files, unpacked...)
	}
	return files, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeChartFile(path string, chart []byte) error {
	if err := os.WriteFile(path, chart, 0644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	log.Info().Str("file", path).Int("bytes", len(chart)).Msg("chart saved")
	return nil
}

func newMarketCmd() *cobra.Command {
	var file, out string
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Draw the market share chart of one country",
		Example: `  telecom_charts market --file share.xlsx --country Germany --year 2024 --quarter Q4 --out germany.png
  telecom_charts market --file share.xlsx --country France --chart bar --out france.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFromPath(out)
			if err != nil {
				return err
			}
			sel := defaultMarketSelection()
			if err := applyMarketArgs(&sel, changedArgs(cmd.Flags(), "file", "out")); err != nil {
				return errors.New(selectionMessage(err))
			}
			files, cleanup, err := stageInputs(file)
			if err != nil {
				return err
			}
			defer cleanup()
			report, err := buildMarketChart(files, sel, format)
			if err != nil {
				return errors.New(selectionMessage(err))
			}
			if err := writeChartFile(out, report.Chart); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), GenerateShareTable(report.Result))
			return nil
		},
	}
	def := defaultMarketSelection()
	f := cmd.Flags()
	f.StringVar(&file, "file", "", "market share workbook (.xlsx, .xls or an archive)")
	f.StringVar(&out, "out", "market.png", "output chart, .png or .html")
	f.String("country", "", "country as written in the sheet, case-insensitive")
	f.String("metric", def.Metric, "share metric")
	f.Int("year", def.Year, "year of the share column")
	f.String("quarter", def.Quarter, "quarter of the share column")
	f.String("chart", string(def.Chart), "pie or bar")
	f.String("background", string(def.Background), "black or white")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func newProfileCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "profile [flags] FILE...",
		Short: "Compare one metric across company profile sheets",
		Example: `  telecom_charts profile --metric ARPU --period "Q2 2024" --mode YoY --corp Vodafone --out arpu.png profiles.zip
  telecom_charts profile --metric "Total subscriptions" --period "Q1 2024" --trend "Company Profile Sheet A.xlsx" "Company Profile Sheet B.xlsx"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFromPath(out)
			if err != nil {
				return err
			}
			sel := defaultProfileSelection()
			if err := applyProfileArgs(&sel, changedArgs(cmd.Flags(), "out")); err != nil {
				return errors.New(selectionMessage(err))
			}
			files, cleanup, err := stageInputs(args...)
			if err != nil {
				return err
			}
			defer cleanup()
			report, err := buildProfileChart(files, sel, format)
			if err != nil {
				return errors.New(selectionMessage(err))
			}
			if err := writeChartFile(out, report.Chart); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), GenerateComparisonTable(report.Comparison))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&out, "out", "profile.png", "output chart, .png or .html")
	f.String("corp", "", "corporation shown in the title")
	f.String("metric", "", "metric row, e.g. ARPU")
	f.String("period", "", `current period, e.g. "Q2 2024"`)
	f.String("mode", string(metrics.QoQ), "QoQ or YoY")
	f.Bool("trend", false, "overlay the % change line")
	f.Bool("grid", false, "draw gridlines")
	_ = cmd.MarkFlagRequired("metric")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}
