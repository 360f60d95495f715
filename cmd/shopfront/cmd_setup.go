package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/shopfront/internal/config"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println("Shopfront Setup Wizard")
		fmt.Println("Press Enter to accept the default value shown in brackets.")
		fmt.Println()

		cfg.Assistant.LatencyMS = promptInt(scanner, "Assistant latency (ms)", cfg.Assistant.LatencyMS)
		cfg.Flight.ToCenterMS = promptInt(scanner, "Flight to centre (ms)", cfg.Flight.ToCenterMS)
		cfg.Flight.ToCartMS = promptInt(scanner, "Flight to cart (ms)", cfg.Flight.ToCartMS)
		cfg.Flight.Policy = prompt(scanner, "Flight policy (reject|queue)", cfg.Flight.Policy)
		if cfg.Flight.Policy == "queue" {
			cfg.Flight.QueueSize = promptInt(scanner, "Flight queue size", cfg.Flight.QueueSize)
		}
		cfg.HTTP.Listen = prompt(scanner, "HTTP listen address", cfg.HTTP.Listen)
		cfg.LogFile = prompt(scanner, "Log file (optional)", cfg.LogFile)

		if err := config.Validate(cfg); err != nil {
			return err
		}
		if err := config.Save(cfgPath, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Println()
		fmt.Println("Configuration saved to", cfgPath)
		return nil
	},
}

// prompt displays a labeled prompt with a default value and reads user input.
// If the user enters nothing, the default is returned.
func prompt(scanner *bufio.Scanner, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input != "" {
			return input
		}
	}
	return defaultVal
}

func promptInt(scanner *bufio.Scanner, label string, defaultVal int) int {
	for {
		raw := prompt(scanner, label, strconv.Itoa(defaultVal))
		n, err := strconv.Atoi(raw)
		if err == nil {
			return n
		}
		fmt.Printf("  %q is not a number\n", raw)
		if scanner.Err() != nil {
			return defaultVal
		}
	}
}
