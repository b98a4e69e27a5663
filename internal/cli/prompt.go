package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgrid/pkg/prompts"
)

func (c *CLI) promptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Manage the stored last prompt",
	}
	cmd.AddCommand(c.promptShowCommand())
	cmd.AddCommand(c.promptClearCommand())
	return cmd
}

func (c *CLI) promptShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the last prompt used for generation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := prompts.NewStore("")
			if err != nil {
				return err
			}
			last, err := store.Last()
			if err != nil {
				return err
			}
			if last == "" {
				printInfo("no prompt stored")
				return nil
			}
			fmt.Println(last)
			return nil
		},
	}
}

func (c *CLI) promptClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored last prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := prompts.NewStore("")
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			printSuccess("Cleared stored prompt")
			return nil
		},
	}
}
