// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-care-sync/models"
)

// annotationNoBackend marks commands that run without opening the local store.
const annotationNoBackend = "care-sync/no-backend"

// RootOptions holds global flags and the backend shared by all commands.
type RootOptions struct {
	ConfigPath string
	Format     string

	loader  BackendLoader
	backend Backend
}

// Option customizes the root command.
type Option func(*RootOptions)

// WithBackendLoader replaces [LoadApp] as the way commands obtain a Backend.
func WithBackendLoader(loader BackendLoader) Option {
	return func(o *RootOptions) {
		o.loader = loader
	}
}

// NewRootCommand creates the care-sync client command tree.
func NewRootCommand(buildInfo models.AppBuildInfo, options ...Option) *cobra.Command {
	opts := &RootOptions{loader: LoadApp}
	for _, option := range options {
		option(opts)
	}
	return newRootCommand(opts, buildInfo)
}

func newRootCommand(opts *RootOptions, buildInfo models.AppBuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "care-sync",
		Short: "Offline-first sync client for care circles",
		Long: `care-sync keeps a care circle's tasks, binder items and handoffs in a
local database, queues every change while offline and syncs with the
server when it is reachable. Voice handoffs are captured, transcribed,
structured and published as numbered revisions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return newExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, validFormats), nil)
			}
			if cmd.Annotations[annotationNoBackend] == "true" || opts.backend != nil {
				return nil
			}

			backend, err := opts.loader(cmd.Context(), opts.ConfigPath)
			if err != nil {
				return newExitError(ExitCommandError, "load client", err)
			}
			opts.backend = backend
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to the JSON config file (default $CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", formatJSON, "output format (json|yaml)")

	cmd.AddCommand(newVersionCommand(buildInfo))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newSyncCommand(opts))
	cmd.AddCommand(newPushCommand(opts))
	cmd.AddCommand(newPullCommand(opts))
	cmd.AddCommand(newStatusCommand(opts))
	cmd.AddCommand(newQueueCommand(opts))
	cmd.AddCommand(newEntitiesCommand(opts))
	cmd.AddCommand(newEntityCommand(opts))
	cmd.AddCommand(newEnqueueCommand(opts))
	cmd.AddCommand(newResolveCommand(opts))
	cmd.AddCommand(newRetryCommand(opts))
	cmd.AddCommand(newPipelineCommand(opts))

	return cmd
}

// Execute runs the client command line and returns the process exit code.
// SIGINT and SIGTERM cancel the running command.
func Execute(ctx context.Context, buildInfo models.AppBuildInfo, args []string) int {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := &RootOptions{loader: LoadApp}
	cmd := newRootCommand(opts, buildInfo)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if opts.backend != nil {
		if closeErr := opts.backend.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "close local store: %v\n", closeErr)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

func (o *RootOptions) output(cmd *cobra.Command) *outputFormatter {
	return &outputFormatter{format: o.Format, writer: cmd.OutOrStdout()}
}

func newVersionCommand(buildInfo models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoBackend: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build version: %s\n", buildInfo.BuildVersion())
			fmt.Fprintf(out, "Build date: %s\n", buildInfo.BuildDate())
			fmt.Fprintf(out, "Build commit: %s\n", buildInfo.BuildCommit())
			return nil
		},
	}
}
