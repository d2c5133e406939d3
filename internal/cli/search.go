package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/netcompare/internal/domain"
)

func newSearchCmd(rt *runtime) *cobra.Command {
	var street, number, zip, city, format string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Fetch every offer available at an address",
		Example: `  netcompare search --street "Teststr." --number 1 --zip 10115 --city Berlin
  netcompare search --street "Teststr." --number 1 --zip 10115 --city Berlin --format json`,
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

			addr := domain.NewAddress(street, number, zip, city)
			if err := c.Search(ctx, addr); err != nil {
				if v := c.View(); v.Error != "" {
					return fmt.Errorf("search failed: %s", v.Error)
				}
				return err
			}
			return printView(out(cmd), c.View(), rt.catalog(), format, false)
		},
	}

	f := cmd.Flags()
	f.StringVar(&street, "street", "", "street name")
	f.StringVar(&number, "number", "", "house number")
	f.StringVar(&zip, "zip", "", "postal code (PLZ)")
	f.StringVar(&city, "city", "", "city")
	f.StringVar(&format, "format", formatTable, "output format: table or json")
	return cmd
}
