package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/user/shopfront/internal/logging"
	"github.com/user/shopfront/internal/storefront"
	"github.com/user/shopfront/internal/tui"
)

func init() {
	rootCmd.AddCommand(tuiCmd)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the storefront in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		// The terminal belongs to bubbletea; logs go to the file only.
		logger, err := logging.NewFileOnly(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return err
		}
		defer logger.Sync()

		opts := storefront.OptionsFromConfig(cfg)
		opts.Logger = logger
		store := storefront.New(opts)
		defer store.Close()

		model := tui.New(store, logger.Named("tui"))
		defer model.Close()

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	},
}
