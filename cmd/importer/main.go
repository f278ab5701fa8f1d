package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"checkin-importer/internal/di"
	"checkin-importer/internal/registry"
	"checkin-importer/internal/sheet"
	"checkin-importer/internal/storage"
	"checkin-importer/internal/structures"

	"github.com/spf13/cobra"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func newRootCmd() *cobra.Command {
	flags := &structures.CliFlags{}

	cmd := &cobra.Command{
		Use:   "importer [spreadsheet.xlsx]",
		Short: "Import legacy check-in spreadsheet rows into the check-in store",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.SourcePath = args[0]
			}
			flags.DryRunSet = cmd.Flags().Changed("dry-run")

			app, err := di.InitApp(flags)
			if err != nil {
				return err
			}
			_, err = app.Run(cmd.Context())
			return err
		},
	}

	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "config/importer.yaml", "Path to the YAML config file")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Run every check without writing to the store")
	cmd.Flags().BoolVarP(&flags.DebugMode, "debug", "d", false, "Log at debug level")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	return cmd
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(os.Stderr, "importer:", describe(err))
	if isUsageError(err) {
		return exitUsage
	}
	return exitFatal
}

func describe(err error) string {
	var schemaErr *sheet.SchemaResolutionError
	switch {
	case errors.As(err, &schemaErr):
		return "spreadsheet layout not recognised: " + schemaErr.Error()
	case errors.Is(err, sheet.ErrSourceNotFound):
		return "source spreadsheet missing: " + err.Error()
	case errors.Is(err, registry.ErrRegistryUnavailable):
		return "person registry unreachable: " + err.Error()
	case errors.Is(err, storage.ErrStoreUnavailable):
		return "check-in store unreachable: " + err.Error()
	}
	return err.Error()
}

// usageError marks bad arguments or flags.
type usageError struct{ error }

func (u usageError) Unwrap() error { return u.error }

func isUsageError(err error) bool {
	var u usageError
	return errors.As(err, &u)
}
