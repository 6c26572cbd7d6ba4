package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/htls/htls/internal/config"
	"github.com/htls/htls/internal/fetch"
	"github.com/htls/htls/internal/htfs"
	"github.com/htls/htls/internal/progress"
	"github.com/htls/htls/internal/version"
)

var (
	cyan = color.New(color.FgHiCyan).SprintFunc()
	red  = color.New(color.FgHiRed, color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:          "htls",
	Short:        "Browse and download from HTML directory listings",
	Version:      version.Detailed(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}

		noColor, _ := cmd.Flags().GetBool("no-color")
		if noColor {
			color.NoColor = true
		}

		// the progress line owns stdout, logs go to stderr
		handler := tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    noColor || !isatty.IsTerminal(os.Stderr.Fd()),
		})
		slog.SetDefault(slog.New(handler))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().SortFlags = false
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutputDir, "directory downloads are written to")
	rootCmd.PersistentFlags().DurationP("timeout", "t", config.DefaultTimeout, "per-request timeout")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Bool("keep-line", true, "keep the finished progress line on screen")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	rootCmd.AddCommand(lsCmd, getCmd, shellCmd)
}

func loadConfig(cmd *cobra.Command, baseURL string) (*config.Config, error) {
	viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	viper.BindPFlag("timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("no_color", cmd.Flags().Lookup("no-color"))
	viper.BindPFlag("keep_line", cmd.Flags().Lookup("keep-line"))

	viper.SetEnvPrefix("HTLS")
	viper.AutomaticEnv()

	cfg := &config.Config{
		BaseURL:   baseURL,
		OutputDir: viper.GetString("output"),
		Timeout:   viper.GetDuration("timeout"),
		NoColor:   viper.GetBool("no_color"),
		KeepLine:  viper.GetBool("keep_line"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newFS builds a filesystem over baseURL. withProgress attaches the live
// terminal line to downloads; it only engages when stdout is a tty.
func newFS(cmd *cobra.Command, baseURL string, withProgress bool) (*htfs.FS, *config.Config, error) {
	cfg, err := loadConfig(cmd, baseURL)
	if err != nil {
		return nil, nil, err
	}

	client := fetch.New(cfg.Timeout)

	var opts []htfs.Option
	if withProgress && isatty.IsTerminal(os.Stdout.Fd()) {
		term := progress.NewTerminal(os.Stdout)
		opts = append(opts, htfs.WithProgress(func(name string, total int64) htfs.ProgressSink {
			var ropts []progress.Option
			if cfg.KeepLine {
				ropts = append(ropts, progress.WithKeepLine())
			}
			return progress.New(name, total, term, ropts...)
		}))
	}

	fs, err := htfs.New(cfg.BaseURL, client, opts...)
	if err != nil {
		return nil, nil, err
	}
	return fs, cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
