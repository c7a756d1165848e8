// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-care-sync/models"
)

func newRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the background sync daemon",
		Long: `Run syncs every configured scope, then keeps pushing and pulling on the
configured interval and resumes interrupted handoff pipelines until it is
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.backend.Run(cmd.Context()); err != nil {
				return newExitError(ExitFailure, "client run error", err)
			}
			return nil
		},
	}
}

func newSyncCommand(opts *RootOptions) *cobra.Command {
	var scopes []string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push queued changes and pull every scope once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(scopes) == 0 {
				scopes = opts.backend.Config().Sync.Scopes
			}
			if len(scopes) == 0 {
				return newExitError(ExitCommandError, "no scopes to sync: pass --scope or configure sync.scopes", nil)
			}

			reports := make(map[string]models.SyncReport, len(scopes))
			for _, scopeID := range scopes {
				report, err := opts.backend.Coordinator().Sync(cmd.Context(), scopeID)
				if err != nil {
					return newExitError(ExitFailure, fmt.Sprintf("sync scope %s", scopeID), err)
				}
				reports[scopeID] = report
			}
			return opts.output(cmd).Print(reports)
		},
	}

	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "scope to sync (repeatable, default all configured scopes)")
	return cmd
}

func newPushCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Push queued changes without pulling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := opts.backend.Coordinator().Push(cmd.Context())
			if printErr := opts.output(cmd).Print(result); printErr != nil {
				return printErr
			}
			if err != nil {
				return newExitError(ExitFailure, "push stopped", err)
			}
			return nil
		},
	}
}

func newPullCommand(opts *RootOptions) *cobra.Command {
	var (
		scopeID string
		types   []string
	)

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull remote changes of one scope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entityTypes, err := parseEntityTypes(types)
			if err != nil {
				return err
			}

			result, err := opts.backend.Coordinator().Pull(cmd.Context(), scopeID, entityTypes...)
			if err != nil {
				return newExitError(ExitFailure, "pull", err)
			}
			return opts.output(cmd).Print(result)
		},
	}

	cmd.Flags().StringVar(&scopeID, "scope", "", "scope to pull")
	cmd.Flags().StringSliceVar(&types, "type", nil, "entity type to pull (repeatable, default all)")
	_ = cmd.MarkFlagRequired("scope")
	return cmd
}

func newStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue and sync status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := opts.backend.Coordinator().Status(cmd.Context())
			if err != nil {
				return newExitError(ExitCommandError, "read status", err)
			}
			return opts.output(cmd).Print(status)
		},
	}
}

func newQueueCommand(opts *RootOptions) *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List unacknowledged operations in enqueue order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := make([]models.OperationStatus, 0, len(statuses))
			for _, s := range statuses {
				status := models.OperationStatus(strings.ToLower(s))
				switch status {
				case models.OperationPending, models.OperationNeedsManualMerge, models.OperationExhausted:
					filter = append(filter, status)
				default:
					return newExitError(ExitCommandError, fmt.Sprintf("unknown operation status %q", s), nil)
				}
			}

			ops, err := opts.backend.Coordinator().Operations(cmd.Context(), filter...)
			if err != nil {
				return newExitError(ExitCommandError, "list operations", err)
			}
			if ops == nil {
				ops = []models.PendingOperation{}
			}
			return opts.output(cmd).Print(ops)
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "filter by status: pending, needs_manual_merge, exhausted")
	return cmd
}

func newEntitiesCommand(opts *RootOptions) *cobra.Command {
	var scopeID, entityType string

	cmd := &cobra.Command{
		Use:   "entities",
		Short: "List the local copies of one entity type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseEntityType(entityType)
			if err != nil {
				return err
			}

			entities, err := opts.backend.Coordinator().Entities(cmd.Context(), scopeID, t)
			if err != nil {
				return newExitError(ExitCommandError, "list entities", err)
			}
			if entities == nil {
				entities = []models.LocalEntity{}
			}
			return opts.output(cmd).Print(entities)
		},
	}

	cmd.Flags().StringVar(&scopeID, "scope", "", "scope id")
	cmd.Flags().StringVar(&entityType, "type", "", "entity type: tasks, binder_items, handoffs")
	_ = cmd.MarkFlagRequired("scope")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newEntityCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "entity <type> <id>",
		Short: "Show the local copy of one entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseEntityType(args[0])
			if err != nil {
				return err
			}

			entity, err := opts.backend.Coordinator().Entity(cmd.Context(), t, args[1])
			if err != nil {
				return newExitError(ExitFailure, "read entity", err)
			}
			return opts.output(cmd).Print(entity)
		},
	}
}

func newEnqueueCommand(opts *RootOptions) *cobra.Command {
	var (
		intent     models.Intent
		entityType string
		kind       string
		fields     map[string]string
	)

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Queue a create, update or delete and apply it locally",
		Long: `Enqueue records a change in the offline queue and applies it to the local
copy at once. The change is pushed on the next sync.

Example:
  care-sync enqueue --scope circle-1 --type tasks --kind create --field title="Call pharmacy"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseEntityType(entityType)
			if err != nil {
				return err
			}
			intent.EntityType = t
			intent.Kind = models.OperationKind(strings.ToUpper(kind))
			if len(fields) > 0 {
				intent.Fields = models.Fields(fields)
			}

			entityID, err := opts.backend.Coordinator().Enqueue(cmd.Context(), intent)
			if err != nil {
				return newExitError(ExitFailure, "enqueue", err)
			}
			return opts.output(cmd).Print(map[string]string{"entity_id": entityID})
		},
	}

	cmd.Flags().StringVar(&intent.ScopeID, "scope", "", "scope id")
	cmd.Flags().StringVar(&entityType, "type", "", "entity type: tasks, binder_items, handoffs")
	cmd.Flags().StringVar(&kind, "kind", "", "operation kind: create, update, delete")
	cmd.Flags().StringVar(&intent.EntityID, "id", "", "entity id (generated for create when empty)")
	cmd.Flags().StringToStringVar(&fields, "field", nil, "field value as name=value (repeatable)")
	_ = cmd.MarkFlagRequired("scope")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newResolveCommand(opts *RootOptions) *cobra.Command {
	var (
		choice string
		fields map[string]string
	)

	cmd := &cobra.Command{
		Use:   "resolve <operation-id>",
		Short: "Settle an operation waiting for a manual merge",
		Long: `Resolve settles a same-field conflict.

  keep_server  drop the local values and take the server record
  keep_client  push the local values over the server record
  use_fields   push the values given with --field`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolution := models.ManualResolution{Choice: models.MergeChoice(strings.ToLower(choice))}
			switch resolution.Choice {
			case models.KeepServer, models.KeepClient:
			case models.UseFields:
				if len(fields) == 0 {
					return newExitError(ExitCommandError, "use_fields needs at least one --field", nil)
				}
				resolution.Fields = models.Fields(fields)
			default:
				return newExitError(ExitCommandError, fmt.Sprintf("unknown merge choice %q", choice), nil)
			}

			if err := opts.backend.Coordinator().ResolveManualMerge(cmd.Context(), args[0], resolution); err != nil {
				return newExitError(ExitFailure, "resolve", err)
			}
			return opts.output(cmd).Print(map[string]string{"operation_id": args[0], "choice": string(resolution.Choice)})
		},
	}

	cmd.Flags().StringVar(&choice, "choice", "", "keep_server, keep_client or use_fields")
	cmd.Flags().StringToStringVar(&fields, "field", nil, "merged field value as name=value (repeatable)")
	_ = cmd.MarkFlagRequired("choice")
	return cmd
}

func newRetryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <operation-id>",
		Short: "Make an exhausted or backing-off operation pushable now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.backend.Coordinator().RetryOperation(cmd.Context(), args[0]); err != nil {
				return newExitError(ExitFailure, "retry", err)
			}
			return opts.output(cmd).Print(map[string]string{"operation_id": args[0]})
		},
	}
}

func parseEntityType(s string) (models.EntityType, error) {
	t := models.EntityType(strings.ToLower(s))
	if !t.Valid() {
		return "", newExitError(ExitCommandError, fmt.Sprintf("unknown entity type %q", s), nil)
	}
	return t, nil
}

func parseEntityTypes(values []string) ([]models.EntityType, error) {
	types := make([]models.EntityType, 0, len(values))
	for _, v := range values {
		t, err := parseEntityType(v)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}
