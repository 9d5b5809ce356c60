package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (a *App) books(ctx context.Context) error {
	books, err := a.catalog.List(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		fmt.Fprintln(a.out, "Catalog is empty")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tPRICE")
	for _, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d.%02d\n", b.ID, b.Title, b.Author, b.Price/100, b.Price%100)
	}
	return tw.Flush()
}
