// Package commands holds the vocabbuilder subcommands.
package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/japaniel/vocabbuilder/internal/cli/config"
)

var errNoConfig = errors.New("configuration not loaded")

func getConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := config.FromContext(cmd.Context())
	if !ok {
		return nil, errNoConfig
	}
	return cfg, nil
}
