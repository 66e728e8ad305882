package session

import (
	"context"
	"fmt"
	"path/filepath"

	"grocer/internal/chart"
	"grocer/internal/core"
	"grocer/internal/export"
	"grocer/internal/log"
	"grocer/internal/report"
	"grocer/internal/search"
	"grocer/internal/services"
)

func (s *Session) recordSale(ctx context.Context) error {
	s.printCatalog(s.deps.State.Catalog)

	id, err := s.ask("Enter grocery ID: ")
	if err != nil {
		return err
	}
	qty, err := s.askQuantity("Enter quantity sold: ")
	if err != nil {
		return err
	}

	tx, err := s.deps.Sales.Record(ctx, s.deps.State, id, qty, s.opts.Now())
	if err != nil {
		return err
	}
	s.printf("Transaction recorded successfully. Payment: %s\n", core.FormatMoney(tx.Payment))
	return nil
}

func (s *Session) addItem(ctx context.Context) error {
	name, err := s.ask("Enter grocery name: ")
	if err != nil {
		return err
	}
	price, err := s.askPrice("Enter grocery price: ")
	if err != nil {
		return err
	}
	stock, err := s.askStock("Enter grocery stock: ")
	if err != nil {
		return err
	}

	it, err := s.deps.Items.AddItem(ctx, s.deps.State, name, price, stock)
	if err != nil {
		return err
	}
	s.printf("Grocery item added successfully with ID %s.\n", it.ID)
	return nil
}

// editItem keeps any field left blank.
func (s *Session) editItem(ctx context.Context) error {
	id, err := s.ask("Enter grocery ID to edit: ")
	if err != nil {
		return err
	}
	it, ok := s.deps.State.Catalog.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrUnknownProduct, id)
	}
	s.printf("Editing %s with ID %s\n", it.Name, it.ID)

	var edit services.ItemEdit
	name, err := s.ask(fmt.Sprintf("New name for %s: ", it.Name))
	if err != nil {
		return err
	}
	if name != "" {
		edit.Name = &name
	}

	raw, err := s.ask(fmt.Sprintf("Current price: %s. New price: ", it.Price))
	if err != nil {
		return err
	}
	if raw != "" {
		price, err := core.ParsePrice(raw)
		if err != nil {
			return err
		}
		edit.Price = &price
	}

	raw, err = s.ask(fmt.Sprintf("Current stock: %d. New stock: ", it.Stock))
	if err != nil {
		return err
	}
	if raw != "" {
		stock, err := wholeNumber(raw)
		if err != nil || stock < 0 {
			return fmt.Errorf("%w: %q", core.ErrInvalidStock, raw)
		}
		edit.Stock = &stock
	}

	if _, err := s.deps.Items.EditItem(ctx, s.deps.State, id, edit); err != nil {
		return err
	}
	s.println("Grocery item updated successfully.")
	return nil
}

func (s *Session) searchByDate(context.Context) error {
	date, err := s.ask("Enter date (DD/MM/YYYY): ")
	if err != nil {
		return err
	}
	res, err := search.ByDate(s.deps.State.Transactions, date)
	if err != nil {
		return err
	}
	s.showResult(res)
	return nil
}

func (s *Session) searchByName(context.Context) error {
	name, err := s.ask("Enter product name: ")
	if err != nil {
		return err
	}
	res, err := search.ByName(s.deps.State.Transactions, s.deps.State.Catalog, name)
	if err != nil {
		return err
	}
	s.showResult(res)
	return nil
}

func (s *Session) searchByNameInRange(context.Context) error {
	name, err := s.ask("Enter product name: ")
	if err != nil {
		return err
	}
	start, err := s.ask("Enter start date (DD/MM/YYYY): ")
	if err != nil {
		return err
	}
	end, err := s.ask("Enter end date (DD/MM/YYYY): ")
	if err != nil {
		return err
	}
	res, err := search.ByNameInRange(s.deps.State.Transactions, s.deps.State.Catalog, name, start, end)
	if err != nil {
		return err
	}
	s.showResult(res)
	return nil
}

func (s *Session) showResult(res search.Result) {
	s.logger.Issues(log.OpSearch, res.Skipped)
	if len(res.Transactions) == 0 {
		s.println("No transactions found.")
		return
	}
	s.printTransactions(res.Transactions, s.deps.State.Catalog)
}

func (s *Session) askMonths() (string, string, error) {
	start, err := s.ask("Enter start month (MM/YYYY): ")
	if err != nil {
		return "", "", err
	}
	end, err := s.ask("Enter end month (MM/YYYY): ")
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

func (s *Session) monthlyReport(context.Context) error {
	start, end, err := s.askMonths()
	if err != nil {
		return err
	}
	m, err := report.MonthlySales(s.deps.State.Transactions, start, end)
	if err != nil {
		return err
	}
	return s.showMonthly(m, fmt.Sprintf("Monthly Sales from %s to %s", start, end), chart.MonthlyFile(m.Range))
}

func (s *Session) productReport(context.Context) error {
	id, err := s.ask("Enter grocery ID: ")
	if err != nil {
		return err
	}
	it, ok := s.deps.State.Catalog.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrUnknownProduct, id)
	}
	start, end, err := s.askMonths()
	if err != nil {
		return err
	}
	m, err := report.ProductSales(s.deps.State.Transactions, s.deps.State.Catalog, id, start, end)
	if err != nil {
		return err
	}
	return s.showMonthly(m, fmt.Sprintf("Monthly Sales for %s from %s to %s", it.Name, start, end), chart.ProductFile(it, m.Range))
}

func (s *Session) showMonthly(m report.Monthly, title, file string) error {
	s.logger.Issues(log.OpReport, m.Skipped)
	if m.Empty() {
		return core.ErrNoData
	}
	s.printAggregate(m.Aggregate, "Month")
	if sum, err := report.Summarize(m.Aggregate); err == nil {
		s.printSummary(sum)
	}

	path := filepath.Join(s.opts.ChartDir, file)
	if err := chart.Lines(m.Aggregate, title, path); err != nil {
		return err
	}
	s.printf("Chart saved to %s\n", path)
	if s.opts.ExportXLSX {
		return s.export(func(p string) error { return export.Aggregate(m.Aggregate, "Month", p) }, path)
	}
	return nil
}

func (s *Session) totalReport(context.Context) error {
	start, err := s.ask("Enter start date (DD/MM/YYYY): ")
	if err != nil {
		return err
	}
	end, err := s.ask("Enter end date (DD/MM/YYYY): ")
	if err != nil {
		return err
	}
	r, err := report.TotalByProduct(s.deps.State.Transactions, s.deps.State.Catalog, start, end)
	if err != nil {
		return err
	}
	s.logger.Issues(log.OpReport, r.Skipped)
	if r.Empty() {
		return core.ErrNoData
	}
	s.printRanking(r.Rows)

	path := filepath.Join(s.opts.ChartDir, chart.TotalFile(r.Range))
	if err := chart.Bar(r.Rows, "Total Sales by Product", path); err != nil {
		return err
	}
	s.printf("Chart saved to %s\n", path)
	if s.opts.ExportXLSX {
		return s.export(func(p string) error { return export.Ranking(r.Rows, p) }, path)
	}
	return nil
}

func (s *Session) export(write func(path string) error, chartPath string) error {
	path := export.Path(chartPath)
	if err := write(path); err != nil {
		return err
	}
	s.printf("Workbook saved to %s\n", path)
	return nil
}
