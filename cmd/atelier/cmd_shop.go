package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atelier/cmd/atelier/ui"
	"atelier/internal/catalog"
	"atelier/internal/orders"
	"atelier/internal/search"
	"atelier/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// signalContext is cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// commandContext bounds a command by --timeout and cancels on SIGINT/SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signalContext()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// runSearch runs one search and prints the results table.
func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	res := st.search.Execute(ctx, search.Query{Text: joinArgs(args), Category: searchCategory})
	logger.Info("Search complete",
		zap.String("query", res.Query.Text),
		zap.String("tier", res.Tier),
		zap.Int("results", len(res.Candidates)),
		zap.Int("recent", st.search.History().Len()))

	styles := ui.DefaultStyles()
	out := cmd.OutOrStdout()
	fmt.Fprint(out, ui.CandidateTable(res.Query.Text, res.Candidates, styles))
	fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("source: %s", res.Tier)))
	for _, f := range res.Failures {
		fmt.Fprintln(out, styles.Warning.Render("skipped "+f.Error()))
	}
	return nil
}

// runShop searches, lets the user choose, then checks out.
func runShop(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	query := joinArgs(args)
	res := st.search.Execute(ctx, search.Query{Text: query, Category: searchCategory})

	product, ok, err := ui.Pick(fmt.Sprintf("%s (%s)", query, res.Tier), res.Candidates)
	if err != nil {
		return fmt.Errorf("picker: %w", err)
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing ordered.")
		return nil
	}

	placement := st.concierge.Checkout(ctx, product, types.CustomerContext{
		Source: "cli",
		Query:  query,
		Notes:  shopNotes,
	})
	if placement.Order == nil {
		logger.Warn("Order not created", zap.String("error", placement.Error))
		fmt.Fprintln(cmd.OutOrStdout(), placement.Message)
		return errors.New(placement.Error)
	}

	r := ui.NewRenderer(ui.DetectTheme(), 80)
	fmt.Fprint(cmd.OutOrStdout(), r.Render(ui.OrderMarkdown(*placement.Order, placement.Channel, placement.FallbackURL)))
	return nil
}

// runQuote prints the pricing breakdown for a subtotal.
func runQuote(cmd *cobra.Command, args []string) error {
	price, ok := types.ExtractFloat64(args[0])
	if !ok || price < 0 {
		return fmt.Errorf("invalid price %q", args[0])
	}

	now := time.Now()
	md := ui.QuoteMarkdown(orders.Quote(price),
		orders.EstimateDelivery("(Online)", now),
		orders.EstimateDelivery("", now))

	r := ui.NewRenderer(ui.DetectTheme(), 80)
	fmt.Fprint(cmd.OutOrStdout(), r.Render(md))
	return nil
}

// runStores prints the retailer directory.
func runStores(cmd *cobra.Command, args []string) error {
	fmt.Fprint(cmd.OutOrStdout(), ui.StoreTable(catalog.Stores(), ui.DefaultStyles()))
	return nil
}

// runOrders prints mirrored order summaries.
func runOrders(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Store.Enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "The order mirror is disabled (store.enabled: false).")
		return nil
	}
	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	summaries, err := st.mirror.List(ctx, ordersLimit)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No orders recorded yet.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), ui.SummaryTable(summaries, ui.DefaultStyles()))
	return nil
}
