package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/vocabbuilder/internal/cli/config"
	"github.com/japaniel/vocabbuilder/pkg/vocab"
)

// NewOrganizeCommand creates the organize command.
func NewOrganizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "organize <file>",
		Short: "Sort and deduplicate an exclusion word list",
		Long: `Rewrite a word list with its comment lines first and the remaining words
sorted and deduplicated. Blank lines are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := vocab.OrganizeWordList(args[0])
			if err != nil {
				return err
			}
			config.GetLogger(cmd.Context()).Debug("word list organized", "path", args[0], "words", len(words))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Organized %s: %d words\n", args[0], len(words))
			return nil
		},
	}
}
