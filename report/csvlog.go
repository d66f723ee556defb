package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"intrabot/types"
)

var csvHeader = []string{
	"timestamp", "symbol", "trade_type", "strategy",
	"entry_price", "exit_price", "quantity", "profit_loss", "exit_reason", "status",
}

// CSVLog is a file-backed TradeLog with one row per completed trade.
type CSVLog struct {
	mu   sync.Mutex
	path string
}

// NewCSVLog creates the log file with a header row if it does not exist.
func NewCSVLog(path string) (*CSVLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("trade log dir: %w", err)
		}
	}
	l := &CSVLog{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create trade log: %w", err)
		}
		defer f.Close()
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Append writes one completed trade.
func (l *CSVLog) Append(t types.CompletedTrade) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open trade log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := []string{
		t.ClosedAt.Format(time.RFC3339),
		t.Symbol,
		string(t.Direction),
		t.Strategy,
		formatFloat(t.EntryPrice),
		formatFloat(t.ExitPrice),
		strconv.Itoa(t.Quantity),
		formatFloat(t.ProfitLoss),
		t.ExitReason,
		t.Status,
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// All reads every recorded trade back.
func (l *CSVLog) All() ([]types.CompletedTrade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open trade log: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trade log: %w", err)
	}
	var out []types.CompletedTrade
	for i, row := range rows {
		if i == 0 || len(row) != len(csvHeader) {
			continue
		}
		ts, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			continue
		}
		entry, _ := strconv.ParseFloat(row[4], 64)
		exit, _ := strconv.ParseFloat(row[5], 64)
		qty, _ := strconv.Atoi(row[6])
		pnl, _ := strconv.ParseFloat(row[7], 64)
		out = append(out, types.CompletedTrade{
			ActiveTrade: types.ActiveTrade{
				Symbol:     row[1],
				Direction:  types.Side(row[2]),
				Strategy:   row[3],
				EntryPrice: entry,
				Quantity:   qty,
			},
			ExitPrice:  exit,
			ProfitLoss: pnl,
			ClosedAt:   ts,
			ExitReason: row[8],
			Status:     row[9],
		})
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
