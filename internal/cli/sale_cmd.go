package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gymledger/internal/core"
	"gymledger/pkg/domain"
)

var saleView = view[domain.Sale]{
	headers: []string{"ID", "DATE", "BUYER", "PRODUCT", "QUANTITY", "UNIT PRICE", "TOTAL"},
	row: func(s domain.Sale) []string {
		return []string{
			s.ID, formatTime(s.CreatedAt), s.BuyerName, s.ProductName,
			strconv.Itoa(s.Quantity), formatMoney(s.UnitPrice), formatMoney(s.TotalPrice),
		}
	},
}

func newSaleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record and inspect sales",
	}
	cmd.AddCommand(newSaleRecordCmd(a), newSaleListCmd(a), newSaleGetCmd(a))
	return cmd
}

func newSaleRecordCmd(a *app) *cobra.Command {
	var buyer string
	cmd := &cobra.Command{
		Use:   "record <product-id> <quantity>",
		Short: "Sell units of a product, decrementing its stock",
		Args:  cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *core.Store) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}
			sale, err := s.RecordSale(cmd.Context(), args[0], quantity, buyer)
			if err != nil {
				return err
			}
			return saleView.renderOne(cmd, sale)
		}),
	}
	cmd.Flags().StringVar(&buyer, "buyer", "", "Buyer name")
	return cmd
}

func newSaleListCmd(a *app) *cobra.Command {
	var productID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sales in insertion order",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, _ []string, s *core.Store) error {
			var (
				sales []domain.Sale
				err   error
			)
			if productID != "" {
				sales, err = s.Sales.ListByProduct(cmd.Context(), productID)
			} else {
				sales, err = s.Sales.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			return saleView.render(cmd, sales)
		}),
	}
	cmd.Flags().StringVar(&productID, "product", "", "Only sales of this product id")
	return cmd
}

func newSaleGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one sale",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *core.Store) error {
			sale, err := s.Sales.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return saleView.renderOne(cmd, sale)
		}),
	}
}
