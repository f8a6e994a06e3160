package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/display"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/page"
)

var (
	quotePage   string
	quoteSelect string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Apply a shipping selection to a saved shipping page",
	Long: `Reads a rendered shipping methods page, selects the option with the
given value and prints the resulting shipping charge, delivery estimate and
grand total regions.

Example:
  checkout quote --page shipping.html --select express`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(quotePage)
		if err != nil {
			return err
		}
		defer f.Close()
		return runQuote(f, quoteSelect, cmd.OutOrStdout())
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quotePage, "page", "", "path to the shipping page markup")
	quoteCmd.Flags().StringVar(&quoteSelect, "select", "", "option value to select (default: keep current selection)")
	_ = quoteCmd.MarkFlagRequired("page")
}

func runQuote(r io.Reader, value string, w io.Writer) error {
	doc, err := page.Parse(r)
	if err != nil {
		return err
	}

	display.NewUpdater(doc.Page).Bind(doc.Selector)

	if value != "" {
		if err := doc.Selector.SelectValue(value); err != nil {
			return err
		}
	}

	for _, id := range display.Regions {
		if _, err := fmt.Fprintf(w, "%s: %s\n", id, doc.Page.Text(id)); err != nil {
			return err
		}
	}
	return nil
}
