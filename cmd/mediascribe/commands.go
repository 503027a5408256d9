package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kbukum/mediascribe/bootstrap"
	"github.com/kbukum/mediascribe/logger"
	"github.com/kbukum/mediascribe/transcriber"
	"github.com/kbukum/mediascribe/version"
)

type rootOptions struct {
	configFile string
	envFile    string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "mediascribe",
		Short:         "Transcribe uploaded audio and video",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to config.yml")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "path to a .env file")

	root.AddCommand(
		newServeCommand(opts),
		newTranscribeCommand(opts),
		newVersionCommand(),
	)
	return root
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configFile, opts.envFile)
			if err != nil {
				return err
			}
			m, err := newMediascribe(cfg, true,
				bootstrap.WithSummaryOutput(cmd.OutOrStdout()),
				bootstrap.WithGracefulTimeout(cfg.Server.ShutdownTimeout),
			)
			if err != nil {
				return err
			}
			m.app.OnReady(func(context.Context) error {
				m.app.Logger.Info("accepting uploads", logger.Fields(
					"addr", m.server.Addr(),
					"max_upload", cfg.Server.MaxUploadSize,
					"max_concurrent", cfg.Server.MaxConcurrent,
				))
				return nil
			})
			return m.app.Run(cmd.Context())
		},
	}
}

type transcribeOptions struct {
	model    string
	language string
}

func newTranscribeCommand(opts *rootOptions) *cobra.Command {
	topts := &transcribeOptions{}
	cmd := &cobra.Command{
		Use:   "transcribe FILE",
		Short: "Transcribe a local media file and print the text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configFile, opts.envFile)
			if err != nil {
				return err
			}
			// stdout carries the transcript.
			cfg.Logging.Output = "stderr"

			m, err := newMediascribe(cfg, false, bootstrap.WithoutSummary())
			if err != nil {
				return err
			}
			return m.app.RunTask(cmd.Context(), func(ctx context.Context) error {
				text, err := transcribeFile(ctx, m.service, m.app.Logger, args[0], topts)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&topts.model, "model", "m", "", "speech model (default from config)")
	cmd.Flags().StringVarP(&topts.language, "language", "l", "", "ISO-639-1 language hint")
	return cmd
}

func transcribeFile(ctx context.Context, svc *transcriber.Service, log *logger.Logger, path string, topts *transcribeOptions) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	result, err := svc.Transcribe(ctx, transcriber.Upload{
		Body:        f,
		Filename:    name,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Size:        info.Size(),
		Model:       topts.model,
		Language:    topts.language,
	})
	if err != nil {
		return "", err
	}
	log.Debug("transcribed", logger.Fields(
		logger.FieldFilename, name,
		"kind", result.Kind.String(),
		"model", result.Model,
	))
	return result.Text, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
			return err
		},
	}
}
