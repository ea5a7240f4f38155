package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newRatesCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show the exchange rates used for conversion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := app.exchangeService().Snapshot(cmd.Context())

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(table)
			}

			w := cmd.OutOrStdout()
			if table.FetchedAt.IsZero() {
				_, _ = fmt.Fprintln(w, "source: built-in fallback rates (exchange rate service unreachable)")
			} else {
				_, _ = fmt.Fprintf(w, "fetched: %s\n", table.FetchedAt.Local().Format(time.RFC3339))
			}

			codes := make([]string, 0, len(table.Rates))
			for code := range table.Rates {
				codes = append(codes, code)
			}
			sort.Strings(codes)

			for _, code := range codes {
				_, _ = fmt.Fprintf(w, "%-4s %-4s %12.4f\n", code, strings.TrimSpace(domain.Symbol(code)), table.Rates[code])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the rate table as JSON")
	cmd.AddCommand(newRatesConvertCmd(app))

	return cmd
}

func newRatesConvertCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "convert AMOUNT FROM TO",
		Short:   "Convert an amount between two currencies through USD",
		Example: "  cspend rates convert 20 USD EUR",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			from := strings.ToUpper(args[1])
			to := strings.ToUpper(args[2])

			table := app.exchangeService().Snapshot(cmd.Context())
			converted, ok := domain.Convert(amount, from, to, table)
			if !ok {
				return fmt.Errorf("no exchange rate available for %s -> %s", from, to)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", domain.FormatAmount(amount, from), domain.FormatAmount(converted, to))
			return err
		},
	}
}
