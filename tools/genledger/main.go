// Large Joint Ledger Generator
//
// This tool generates a large joint ledger for performance testing and profiling.
// It creates realistic household transactions to stress-test the parser, the
// repository cache and the reports.
//
// Usage:
//
//	go run ./tools/genledger > large.ledger
//	go run ./tools/genledger 20000000 > large.ledger  # Specify target size in bytes
package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	expenses = []string{
		"joint:expenses:dining",
		"joint:expenses:groceries:market",
		"joint:expenses:groceries:supermarket",
		"joint:expenses:utilities:power",
		"joint:expenses:utilities:internet",
		"joint:expenses:transport:fuel",
		"joint:expenses:travel:flights",
		"joint:expenses:travel-2024:hotel",
		"joint:expenses:household",
		"alice:expenses:clothing",
		"bob:expenses:hobbies",
	}

	assets = []string{
		"joint:assets:checking",
		"joint:assets:cash",
		"alice:assets:checking",
		"bob:assets:checking",
	}

	savings = []string{
		"joint:assets:savings:emergency",
		"joint:assets:savings:holiday",
		"alice:assets:investments:etf",
		"bob:assets:retirement:pension",
	}

	tags = []string{
		"dining", "groceries", "bills", "travel", "shopping", "",
	}

	descriptions = []string{
		"Weekly shop", "Pizza night", "Power bill", "Fuel",
		"Flight tickets", "Hotel", "Cleaning supplies", "Jacket",
		"Board game", "Internet",
	}

	budgets = map[string]int{
		"dining":    300,
		"groceries": 600,
		"utilities": 250,
		"transport": 150,
	}
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	w := bufio.NewWriter(os.Stdout)
	g := newGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	written, count, err := g.generate(w, targetSize)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	_, _ = fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d transactions\n", written, count)
}

type generator struct {
	rng *rand.Rand
}

func newGenerator(rng *rand.Rand) *generator {
	return &generator{rng: rng}
}

// generate writes budgets, an opening balances transaction and then daily
// activity until at least targetSize bytes are written.
func (g *generator) generate(w io.Writer, targetSize int) (int, int, error) {
	written := 0
	count := 0
	emit := func(s string) error {
		n, err := io.WriteString(w, s)
		written += n
		return err
	}

	if err := emit(g.header()); err != nil {
		return written, count, err
	}

	date := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := emit(g.openingBalances(date)); err != nil {
		return written, count, err
	}
	count++

	for written < targetSize {
		var txn string
		switch {
		case date.Day() == 25:
			txn = g.salary(date)
		case g.rng.Intn(10) == 0:
			txn = g.transfer(date)
		default:
			txn = g.expense(date)
		}
		if err := emit(txn); err != nil {
			return written, count, err
		}
		count++

		date = date.AddDate(0, 0, 1)
	}

	return written, count, nil
}

func (g *generator) header() string {
	s := "; Large joint ledger for performance testing\n"
	for _, category := range []string{"dining", "groceries", "utilities", "transport"} {
		s += fmt.Sprintf("; budget:expenses:%s: %d monthly\n", category, budgets[category])
	}
	s += "; budget:expenses:travel: 2400 yearly\n\n"
	return s
}

func (g *generator) openingBalances(date time.Time) string {
	s := fmt.Sprintf("%s Opening Balances\n", date.Format("2006-01-02"))
	for _, account := range append(append([]string{}, assets...), savings...) {
		s += fmt.Sprintf("    %s  %s EUR\n", account, g.amount(500, 10000))
	}
	return s + "    equity:opening\n\n"
}

func (g *generator) salary(date time.Time) string {
	return fmt.Sprintf("%s salary\n    joint:income:salary  -%s EUR\n    joint:assets:checking\n\n",
		date.Format("2006-01-02"), g.amount(2500, 4500))
}

func (g *generator) transfer(date time.Time) string {
	return fmt.Sprintf("%s savings | transfer\n    %s  %s EUR\n    joint:assets:checking\n\n",
		date.Format("2006-01-02"), pick(g.rng, savings), g.amount(50, 500))
}

func (g *generator) expense(date time.Time) string {
	description := pick(g.rng, descriptions)
	if tag := pick(g.rng, tags); tag != "" {
		description = tag + " | " + description
	}

	s := fmt.Sprintf("%s %s\n", date.Format("2006-01-02"), description)
	if g.rng.Intn(5) == 0 {
		s += "    ; split evenly\n"
	}

	// Either a single expense balanced implicitly, or a split with every
	// amount explicit.
	if g.rng.Intn(3) > 0 {
		return s + fmt.Sprintf("    %s  %s EUR\n    %s\n\n", pick(g.rng, expenses), g.amount(5, 200), pick(g.rng, assets))
	}

	first := decimal.RequireFromString(g.amount(5, 100))
	second := decimal.RequireFromString(g.amount(5, 100))
	return s + fmt.Sprintf("    %s  %s EUR\n    %s  %s EUR\n    %s  %s EUR\n\n",
		pick(g.rng, expenses), first.StringFixed(2),
		pick(g.rng, expenses), second.StringFixed(2),
		pick(g.rng, assets), first.Add(second).Neg().StringFixed(2))
}

// amount returns a random amount with cents between lo and hi.
func (g *generator) amount(lo, hi int) string {
	cents := int64(lo*100 + g.rng.Intn((hi-lo)*100))
	return decimal.New(cents, -2).StringFixed(2)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
