package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "atelier",
	Short: "atelier - luxury personal-shopping discovery and ordering",
	Long: `atelier finds luxury products through a cascade of sources and hands
orders to a human personal shopper.

Search never comes back empty: when the remote search service is missing or
failing, a curated catalog and a procedural generator answer instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Starts the HTTP API. The config file is watched and logging settings
are reapplied when it changes.`,
	RunE: runServe,
}

// searchCmd runs one search
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for products",
	Example: `  atelier search fisherman sweater
  atelier search --category bags "black leather tote"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// shopCmd searches, lets the user pick a result and places the order
var shopCmd = &cobra.Command{
	Use:   "shop [query]",
	Short: "Search, pick a product and send the order to the personal shopper",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShop,
}

// quoteCmd prices a subtotal
var quoteCmd = &cobra.Command{
	Use:   "quote [price]",
	Short: "Show the tax, fee and tip breakdown for a price",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuote,
}

// ordersCmd lists mirrored orders
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders recorded in the durable mirror",
	RunE:  runOrders,
}

// storesCmd lists the retailer directory
var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "List partner stores",
	RunE:  runStores,
}

var (
	searchCategory string
	shopNotes      string
	ordersLimit    int
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "atelier.yaml", "Config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Category hint for the remote service")
	shopCmd.Flags().StringVar(&searchCategory, "category", "", "Category hint for the remote service")
	shopCmd.Flags().StringVar(&shopNotes, "notes", "", "Notes for the personal shopper")
	ordersCmd.Flags().IntVar(&ordersLimit, "limit", 20, "Maximum orders to list")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(storesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
