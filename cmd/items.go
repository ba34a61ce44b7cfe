package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tanpawarit/chative-shop-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	configx "github.com/tanpawarit/chative-shop-assistant/pkg/config"
)

var (
	itemsMin  float64
	itemsMax  float64
	itemsSort string
)

var itemsCmd = &cobra.Command{
	Use:   "items [search]",
	Short: "Search the item catalog",
	Long:  `Search item names and descriptions, optionally bounded by price and sorted by price, name or quantity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configx.New[catalog.Config]("CATALOG")
		if err != nil {
			return fmt.Errorf("load catalog config: %w", err)
		}
		cat, err := catalog.NewFileSource(*cfg).Load(context.Background())
		if err != nil {
			return err
		}

		opts := contractx.SearchOptions{Query: strings.Join(args, " ")}
		if cmd.Flags().Changed("min") {
			opts.MinPrice = &itemsMin
		}
		if cmd.Flags().Changed("max") {
			opts.MaxPrice = &itemsMax
		}
		if itemsSort != "" {
			field, ok := catalog.ParseSortField(itemsSort)
			if !ok {
				return fmt.Errorf("%w: unsupported sort %q", contractx.ErrValidation, itemsSort)
			}
			opts.SortBy = field
		}

		items := cat.Search(opts)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d item(s)", len(items))))
		for _, item := range items {
			fmt.Fprintln(out, "  "+renderItem(item))
		}
		return nil
	},
}

func init() {
	itemsCmd.Flags().Float64Var(&itemsMin, "min", 0, "minimum price")
	itemsCmd.Flags().Float64Var(&itemsMax, "max", 0, "maximum price")
	itemsCmd.Flags().StringVar(&itemsSort, "sort", "", "sort by price, name or quantity")
	rootCmd.AddCommand(itemsCmd)
}
