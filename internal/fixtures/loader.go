// Package fixtures serves the dashboard's read model: orders, invoices,
// payments and exceptions loaded from the JSON files an upstream pipeline
// regenerates. The loader keeps an immutable snapshot behind a lock and
// hot-reloads when the files change on disk.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

const (
	ordersFile     = "orders.json"
	exceptionsFile = "exceptions.json"
	invoicesFile   = "invoices.json"
	paymentsFile   = "payments.json"
)

var severityRank = map[string]int{"CRITICAL": 0, "HIGH": 1, "MEDIUM": 2, "LOW": 3}

type snapshot struct {
	orders     []OrderRow
	exceptions []ExceptionRow
	invoices   []InvoiceRow
	payments   []PaymentRow
}

type Loader struct {
	dir    string
	logger *slog.Logger

	mu   sync.RWMutex
	snap snapshot
}

func NewLoader(dir string, logger *slog.Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

// Load reads all four fixture files concurrently and swaps the snapshot in
// one step; a failure in any file leaves the previous snapshot in place.
func (l *Loader) Load(ctx context.Context) error {
	var next snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return readJSON(ctx, filepath.Join(l.dir, ordersFile), &next.orders) })
	g.Go(func() error { return readJSON(ctx, filepath.Join(l.dir, exceptionsFile), &next.exceptions) })
	g.Go(func() error { return readJSON(ctx, filepath.Join(l.dir, invoicesFile), &next.invoices) })
	g.Go(func() error { return readJSON(ctx, filepath.Join(l.dir, paymentsFile), &next.payments) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}

	l.mu.Lock()
	l.snap = next
	l.mu.Unlock()

	l.logger.Info("fixtures loaded",
		"orders", len(next.orders),
		"exceptions", len(next.exceptions),
		"invoices", len(next.invoices),
		"payments", len(next.payments),
	)
	return nil
}

func readJSON(ctx context.Context, path string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Watch reloads the snapshot whenever a fixture file is rewritten. Runs
// until the context is cancelled.
func (l *Loader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(l.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", l.dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isFixtureFile(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				l.logger.Info("fixture changed, reloading", "file", filepath.Base(event.Name))
				if err := l.Load(ctx); err != nil {
					l.logger.Error("fixture reload failed", "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Warn("fixture watcher error", "error", err)
			}
		}
	}()
	return nil
}

func isFixtureFile(path string) bool {
	switch filepath.Base(path) {
	case ordersFile, exceptionsFile, invoicesFile, paymentsFile:
		return true
	}
	return false
}

func (l *Loader) Orders() []OrderRow {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap.orders
}

func (l *Loader) Exceptions() []ExceptionRow {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap.exceptions
}

// ExceptionsBySeverity returns exceptions ordered CRITICAL first.
func (l *Loader) ExceptionsBySeverity() []ExceptionRow {
	src := l.Exceptions()
	out := make([]ExceptionRow, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		return severityRank[out[i].Severity] < severityRank[out[j].Severity]
	})
	return out
}

func (l *Loader) Invoices() []InvoiceRow {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap.invoices
}

func (l *Loader) Payments() []PaymentRow {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap.payments
}

func (l *Loader) OrderByID(id string) (OrderRow, bool) {
	for _, o := range l.Orders() {
		if o.SequenceNo == id {
			return o, true
		}
	}
	return OrderRow{}, false
}

func (l *Loader) InvoicesByOrderID(orderID string) []InvoiceRow {
	var out []InvoiceRow
	for _, inv := range l.Invoices() {
		if inv.OrderID == orderID {
			out = append(out, inv)
		}
	}
	return out
}

// KPIs aggregates the headline numbers. Unbilled and overdue amounts come
// from the exceptions table, which is the authoritative source.
func (l *Loader) KPIs() KPIs {
	l.mu.RLock()
	defer l.mu.RUnlock()

	k := KPIs{
		TotalOrders:    len(l.snap.orders),
		ExceptionCount: len(l.snap.exceptions),
	}
	for _, o := range l.snap.orders {
		k.TotalAmount += o.Amount
	}
	for _, e := range l.snap.exceptions {
		switch e.ExceptionType {
		case "UNBILLED":
			k.UnbilledAmount += e.Amount
		case "OVERDUE":
			k.OverdueAmount += e.Amount
		}
	}
	return k
}
