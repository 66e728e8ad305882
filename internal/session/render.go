package session

import (
	"fmt"
	"text/tabwriter"

	"grocer/internal/core"
	"grocer/internal/report"
)

func (s *Session) table(header string, rows func(w *tabwriter.Writer)) {
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	w.Flush()
}

func (s *Session) printCatalog(c *core.Catalog) {
	s.table("ID\tName\tPrice\tStock", func(w *tabwriter.Writer) {
		for _, it := range c.Items() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", it.ID, it.Name, core.FormatMoney(it.Price), it.Stock)
		}
	})
}

func (s *Session) printTransactions(txs []core.Transaction, c *core.Catalog) {
	s.table("Date\tTime\tID\tName\tQuantity\tPayment", func(w *tabwriter.Writer) {
		for _, tx := range txs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				tx.Date, tx.Time, tx.GroceryID, c.Name(tx.GroceryID), tx.Quantity, core.FormatMoney(tx.Payment))
		}
	})
}

func (s *Session) printAggregate(agg core.Aggregate, keyHeader string) {
	s.table(keyHeader+"\tValue\tQuantity\tCount", func(w *tabwriter.Writer) {
		for _, k := range agg.Keys() {
			t := agg[k]
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", k, core.FormatMoney(t.Value), t.Stock, t.Count)
		}
	})
}

func (s *Session) printRanking(rows []core.ProductTotal) {
	s.table("ID\tName\tTotal Sales", func(w *tabwriter.Writer) {
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.GroceryID, r.Name, core.FormatMoney(r.Value))
		}
	})
}

func (s *Session) printSummary(sum report.Summary) {
	s.printf("Total: %s over %d month(s), %d item(s) sold\n", core.FormatMoney(sum.Total), sum.Groups, sum.Quantity)
	s.printf("Mean per month: %.2f, median: %.2f, best month: %s (%s)\n",
		sum.Mean, sum.Median, sum.Best, core.FormatMoney(sum.BestValue))
}
