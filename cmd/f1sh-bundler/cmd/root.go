package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/f1sh-bundler/internal/console"
	"github.com/oshokin/f1sh-bundler/internal/executil"
	"github.com/oshokin/f1sh-bundler/internal/logger"
	"github.com/oshokin/f1sh-bundler/internal/service/bundler"
	"github.com/oshokin/f1sh-bundler/internal/version"
)

var (
	// configPath to the optional configuration YAML file.
	configPath string
	// toolchainPath overrides MSYS2 discovery.
	toolchainPath string
	// logLevel is the minimum level written to the console.
	logLevel string
	// writeManifest enables bundle-manifest.yaml.
	writeManifest bool
	// archivePath is an optional archive to pack the bundle into.
	archivePath string
	// showProgress forces progress bars on or off; unset means auto.
	showProgress bool

	// rootCmd represents the base command for assembling a portable bundle.
	rootCmd = &cobra.Command{
		Use:   "f1sh-bundler [flags] <install-destdir>",
		Short: "Assemble a portable Windows bundle from an install directory",
		Long: "Copy the DLL closure of the application, the selected GStreamer plugins and the GTK runtime " +
			"assets from an MSYS2 toolchain into the install directory, then regenerate the loader caches.",
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: applyLogLevel,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var progress *bool
			if cmd.Flags().Changed("progress") {
				progress = &showProgress
			}

			options := &bundler.Options{
				Destination: args[0],
				ConfigPath:  configPath,
				Toolchain:   toolchainPath,
				Manifest:    writeManifest,
				Archive:     archivePath,
				Printer:     console.NewStdout(progress),
				Executor:    &executil.Executor{Stdout: os.Stdout, Stderr: os.Stderr},
			}

			_, err := bundler.Run(ctx, options)

			return err
		},
	}

	// verifyCmd checks a bundle against its manifest.
	verifyCmd = &cobra.Command{
		Use:   "verify <install-destdir>",
		Short: "Check a bundle against its manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			_, err := bundler.Verify(cmd.Context(), &bundler.VerifyOptions{Destination: args[0]})

			return err
		},
	}
)

// Execute runs the f1sh-bundler CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(verifyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyLogLevel(_ *cobra.Command, _ []string) error {
	level, ok := logger.ParseLogLevel(logLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", logLevel)
	}

	logger.SetLevel(level)

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level: debug, info, warn or error")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default f1sh-bundler.yaml if present)")
	rootCmd.Flags().StringVarP(&toolchainPath, "toolchain", "t", "", "MSYS2 root, probed before MSYS2_ROOT and the default locations")
	rootCmd.Flags().BoolVar(&writeManifest, "manifest", true, "write bundle-manifest.yaml with file digests")
	rootCmd.Flags().StringVarP(&archivePath, "archive", "a", "", "pack the bundle into a .tar.zst, .tar.gz or .tar.xz archive")
	rootCmd.Flags().BoolVar(&showProgress, "progress", false, "show progress bars (default: only on a terminal)")
}
