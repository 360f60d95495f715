package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/shopfront/internal/catalog"
)

var catalogCategory string

func init() {
	catalogCmd.Flags().StringVar(&catalogCategory, "category", catalog.All, "category filter")
	rootCmd.AddCommand(catalogCmd, categoriesCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List generated products",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		products, err := catalog.Generate(cfg.Catalog.ProductCount, nil).Products(catalogCategory)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tBRAND\tNAME\tCATEGORY\tDISCOUNT\tPRICE\tHEARTS\tRATING\tREVIEWS")
		for _, p := range products {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%.1f\t%d\n",
				p.ID, p.Brand, p.Name, p.Category, p.DiscountLabel(), p.PriceLabel(), p.Hearts, p.Rating, p.Reviews)
		}
		return w.Flush()
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List category tabs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, c := range catalog.Categories {
			fmt.Fprintln(os.Stdout, c)
		}
	},
}
