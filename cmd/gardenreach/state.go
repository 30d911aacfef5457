package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gardenreach/internal/app"
	"gardenreach/internal/infra/savestore"
)

func newStateCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset stored selections",
	}
	cmd.AddCommand(
		newStateShowCmd(opts),
		newStateListCmd(opts),
		newStateResetCmd(opts),
	)
	return cmd
}

func newStateShowCmd(opts *cliOptions) *cobra.Command {
	var saveID string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored selections of a save",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSaveID(saveID); err != nil {
				return err
			}
			store, cleanup, err := app.NewSelectionStore(opts.storePath)
			if err != nil {
				return err
			}
			defer cleanup()

			record, found, err := store.Load(saveID)
			if errors.Is(err, savestore.ErrCorruptRecord) {
				opts.logger.Warn("stored selections are corrupt", zap.String("saveId", saveID), zap.Error(err))
				found = false
			} else if err != nil {
				return err
			}
			return printSelections(cmd.OutOrStdout(), saveID, record, found, opts.jsonOutput)
		},
	}
	cmd.Flags().StringVar(&saveID, "save", "", "save identifier")
	return cmd
}

func newStateListCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saves with stored selections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := app.NewSelectionStore(opts.storePath)
			if err != nil {
				return err
			}
			defer cleanup()

			saves, err := store.List()
			if err != nil {
				return err
			}
			return printSaveList(cmd.OutOrStdout(), saves, opts.jsonOutput)
		},
	}
}

func newStateResetCmd(opts *cliOptions) *cobra.Command {
	var saveID string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored selections of a save",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSaveID(saveID); err != nil {
				return err
			}
			store, cleanup, err := app.NewSelectionStore(opts.storePath)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.Delete(saveID); err != nil {
				return err
			}
			opts.logger.Info("selections reset", zap.String("saveId", saveID))
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"saveId": saveID, "reset": true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset save=%s\n", saveID)
			return nil
		},
	}
	cmd.Flags().StringVar(&saveID, "save", "", "save identifier")
	return cmd
}

func requireSaveID(saveID string) error {
	if strings.TrimSpace(saveID) == "" {
		return exitInvalid(errors.New("--save is required"))
	}
	return nil
}
