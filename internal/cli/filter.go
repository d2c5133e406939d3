package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/netcompare/internal/domain"
)

var errNoSearch = errors.New("no saved search, run `netcompare search` first")

func newFilterCmd(rt *runtime) *cobra.Command {
	var (
		sortBy, minSpeed, minData, format string
		connections, providers, terms     []string
		reset                             bool
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Sort and filter the saved results",
		Long: `Only the flags given change; the rest of the saved selection stays.
Pass an empty value (--connection "") to clear a set.`,
		Example: `  netcompare filter --sort price_asc --min-speed 100
  netcompare filter --connection Fiber --connection Cable --term 24
  netcompare filter --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			c, closeStore, err := rt.controller(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if !c.View().HasSearched {
				return errNoSearch
			}

			if reset {
				err = c.ResetSelections(ctx)
			} else {
				sel := c.Selections()
				f := cmd.Flags()
				if f.Changed("sort") {
					sel.SortBy = domain.SortKey(sortBy)
				}
				if f.Changed("connection") {
					sel.ConnectionTypes = connections
				}
				if f.Changed("provider") {
					sel.Providers = providers
				}
				if f.Changed("term") {
					sel.ContractTerms = terms
				}
				if f.Changed("min-speed") {
					sel.MinSpeed = minSpeed
				}
				if f.Changed("min-data") {
					sel.MinDataLimit = minData
				}
				err = c.UpdateSelections(ctx, sel)
			}
			if err != nil {
				return err
			}
			return printView(out(cmd), c.View(), rt.catalog(), format, false)
		},
	}

	f := cmd.Flags()
	f.StringVar(&sortBy, "sort", "", "price_asc, price_desc, speed_asc, speed_desc, contract_asc or contract_desc")
	f.StringArrayVar(&connections, "connection", nil, "connection type to keep (repeatable)")
	f.StringArrayVar(&providers, "provider", nil, "provider to keep (repeatable)")
	f.StringArrayVar(&terms, "term", nil, "contract term in months to keep (repeatable)")
	f.StringVar(&minSpeed, "min-speed", "", "minimum download speed tier in Mbps, or any")
	f.StringVar(&minData, "min-data", "", "minimum data tier in GB, unlimited or any")
	f.BoolVar(&reset, "reset", false, "restore the default selection")
	f.StringVar(&format, "format", formatTable, "output format: table or json")
	cmd.MarkFlagsMutuallyExclusive("reset", "sort")
	return cmd
}
