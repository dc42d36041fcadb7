package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	labelColor   = color.New(color.FgCyan)
	valueColor   = color.New(color.FgWhite)
	pathColor    = color.New(color.FgBlue)
	freshColor   = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

func newProductsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the product catalog",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printProducts(cmd.OutOrStdout())
		},
	}
}

func newReferenceSystemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reference-systems",
		Short: "List the boundary reference systems",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			for _, name := range domain.ReferenceSystems() {
				fmt.Fprintln(w, name)
			}
			fmt.Fprintf(w, "%s (layers: ", domain.RefCustom)
			for i, l := range domain.Layers() {
				if i > 0 {
					fmt.Fprint(w, ", ")
				}
				fmt.Fprint(w, l.String())
			}
			fmt.Fprintln(w, ")")
		},
	}
}

func printProducts(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tELEMENT\tMODE\tTHRESHOLD\tTITLE")
	for _, p := range domain.Products() {
		threshold := "-"
		if p.IsThreshold() {
			threshold = fmt.Sprintf("%g", p.DefaultThreshold)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Element, p.Mode, threshold, p.Title)
	}
	tw.Flush() //nolint:errcheck // terminal output
}
