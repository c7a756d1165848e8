// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MKhiriev/go-care-sync/internal/utils"
	"github.com/MKhiriev/go-care-sync/models"
)

func newPipelineCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Capture, review and publish voice handoffs",
	}

	cmd.AddCommand(newPipelineCaptureCommand(opts))
	cmd.AddCommand(newPipelineRunCommand(opts))
	cmd.AddCommand(newPipelineRetryCommand(opts))
	cmd.AddCommand(newPipelineConfirmCommand(opts))
	cmd.AddCommand(newPipelineEditCommand(opts))
	cmd.AddCommand(newPipelinePublishCommand(opts))
	cmd.AddCommand(newPipelineStatusCommand(opts))

	return cmd
}

func newPipelineCaptureCommand(opts *RootOptions) *cobra.Command {
	var (
		req   models.CaptureRequest
		noRun bool
	)

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Start a pipeline from a recorded audio file",
		Long: `Capture records the audio file as a new handoff pipeline and runs it up to
review. Pass --handoff to make the capture the next revision of an
existing handoff.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := opts.backend.Pipeline().Capture(cmd.Context(), req)
			if err != nil {
				return newExitError(ExitFailure, "capture", err)
			}
			if !noRun {
				if record, err = opts.backend.Pipeline().Run(cmd.Context(), record.HandoffID); err != nil {
					return newExitError(ExitFailure, "run pipeline", err)
				}
			}
			return printRecord(opts, cmd, record)
		},
	}

	cmd.Flags().StringVar(&req.ScopeID, "scope", "", "scope id")
	cmd.Flags().StringVar(&req.HandoffID, "handoff", "", "existing handoff to revise")
	cmd.Flags().StringVar(&req.AudioPath, "audio", "", "path to the recorded audio")
	cmd.Flags().BoolVar(&noRun, "no-run", false, "only record the capture")
	_ = cmd.MarkFlagRequired("scope")
	_ = cmd.MarkFlagRequired("audio")
	return cmd
}

func newPipelineRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <handoff-id>",
		Short: "Advance a pipeline until review, published or failed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := opts.backend.Pipeline().Run(cmd.Context(), args[0])
			if err != nil {
				return newExitError(ExitFailure, "run pipeline", err)
			}
			return printRecord(opts, cmd, record)
		},
	}
}

func newPipelineRetryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <handoff-id>",
		Short: "Retry a failed pipeline from its failed stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := opts.backend.Pipeline().Retry(cmd.Context(), args[0])
			if err != nil {
				return newExitError(ExitFailure, "retry pipeline", err)
			}
			return printRecord(opts, cmd, record)
		},
	}
}

func newPipelineConfirmCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <handoff-id> <field-id>",
		Short: "Confirm a medication change in the reviewed brief",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := opts.backend.Pipeline().Confirm(cmd.Context(), args[0], args[1])
			if err != nil {
				return newExitError(ExitFailure, "confirm", err)
			}
			return opts.output(cmd).Print(record)
		},
	}
}

func newPipelineEditCommand(opts *RootOptions) *cobra.Command {
	var briefPath string

	cmd := &cobra.Command{
		Use:   "edit <handoff-id>",
		Short: "Replace the reviewed brief with an edited one",
		Long: `Edit replaces the brief of a pipeline in review with the brief read from
--brief. JSON and YAML files are accepted; the field names are the ones
printed by "pipeline status".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			brief, err := readBriefFile(briefPath)
			if err != nil {
				return newExitError(ExitCommandError, "read brief", err)
			}

			record, err := opts.backend.Pipeline().EditBrief(cmd.Context(), args[0], brief)
			if err != nil {
				return newExitError(ExitFailure, "edit brief", err)
			}
			return opts.output(cmd).Print(record)
		},
	}

	cmd.Flags().StringVar(&briefPath, "brief", "", "path to the edited brief (.json, .yaml)")
	_ = cmd.MarkFlagRequired("brief")
	return cmd
}

func newPipelinePublishCommand(opts *RootOptions) *cobra.Command {
	var req models.PublishRequest

	cmd := &cobra.Command{
		Use:   "publish <handoff-id>",
		Short: "Publish the reviewed brief as the next revision",
		Long: `Publish appends the reviewed brief to the handoff's revision history.
Unconfirmed medication changes block publishing; confirm them first.
The editor defaults to the user of the configured token.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.HandoffID = args[0]
			if req.EditorID == "" {
				editorID, err := utils.ParseUserIDFromJWT(opts.backend.Config().Adapter.Token)
				if err != nil {
					return newExitError(ExitCommandError, "no --editor given and the token carries no user", err)
				}
				req.EditorID = editorID
			}

			outcome, err := opts.backend.Pipeline().Publish(cmd.Context(), req)
			if err != nil {
				return newExitError(ExitFailure, "publish", err)
			}
			if err = opts.output(cmd).Print(outcome); err != nil {
				return err
			}
			if len(outcome.ConfirmationRequired) > 0 {
				return newExitError(ExitFailure, fmt.Sprintf("confirmation required for fields %s", strings.Join(outcome.ConfirmationRequired, ", ")), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.EditorID, "editor", "", "editor user id (default token user)")
	cmd.Flags().StringVar(&req.ChangeNote, "note", "", "change note stored with the revision")
	return cmd
}

func newPipelineStatusCommand(opts *RootOptions) *cobra.Command {
	var states []string

	cmd := &cobra.Command{
		Use:   "status [handoff-id]",
		Short: "Show one pipeline or list pipelines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				record, err := opts.backend.Pipeline().Get(cmd.Context(), args[0])
				if err != nil {
					return newExitError(ExitFailure, "read pipeline", err)
				}
				return opts.output(cmd).Print(record)
			}

			filter := make([]models.PipelineState, 0, len(states))
			for _, s := range states {
				filter = append(filter, models.PipelineState(strings.ToUpper(s)))
			}
			records, err := opts.backend.Pipeline().List(cmd.Context(), filter...)
			if err != nil {
				return newExitError(ExitCommandError, "list pipelines", err)
			}
			if records == nil {
				records = []models.PipelineRecord{}
			}
			return opts.output(cmd).Print(records)
		},
	}

	cmd.Flags().StringSliceVar(&states, "state", nil, "filter by state, e.g. review, failed (repeatable)")
	return cmd
}

// printRecord prints record and turns a FAILED pipeline into a non-zero exit.
func printRecord(opts *RootOptions, cmd *cobra.Command, record models.PipelineRecord) error {
	if err := opts.output(cmd).Print(record); err != nil {
		return err
	}
	if record.State == models.StateFailed {
		return newExitError(ExitFailure, fmt.Sprintf("pipeline failed in %s: %s", record.FailedStage, record.FailureReason), nil)
	}
	return nil
}

func readBriefFile(path string) (models.StructuredBrief, error) {
	var brief models.StructuredBrief

	raw, err := os.ReadFile(path)
	if err != nil {
		return brief, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// decode through the json form so json field names apply
		var generic any
		if err = yaml.Unmarshal(raw, &generic); err != nil {
			return brief, fmt.Errorf("decode yaml: %w", err)
		}
		if raw, err = json.Marshal(generic); err != nil {
			return brief, fmt.Errorf("decode yaml: %w", err)
		}
	}

	if err = json.Unmarshal(raw, &brief); err != nil {
		return brief, fmt.Errorf("decode brief: %w", err)
	}
	return brief, nil
}
