// Command report prints the spend-by-category summary backing the dashboard,
// read-only, for a date range.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lbarbosa/fatura-tracker/internal/config"
	infraBQ "github.com/lbarbosa/fatura-tracker/internal/infra/bigquery"
	"github.com/lbarbosa/fatura-tracker/internal/logger"
)

const dateFormat = "2006-01-02"

func main() {
	log := logger.New()

	var (
		startFlag = flag.String("start", "", "start date YYYY-MM-DD (default: first day of the current month)")
		endFlag   = flag.String("end", "", "end date YYYY-MM-DD (default: today)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("incomplete configuration")
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := now
	if *startFlag != "" {
		if start, err = time.Parse(dateFormat, *startFlag); err != nil {
			log.Fatal().Err(err).Msg("invalid -start date")
		}
	}
	if *endFlag != "" {
		if end, err = time.Parse(dateFormat, *endFlag); err != nil {
			log.Fatal().Err(err).Msg("invalid -end date")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := infraBQ.NewRepository(ctx, cfg.ProjectID, cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create BigQuery repository")
	}
	defer repo.Close()

	rows, err := repo.CategorySpend(ctx, start, end)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to query category spend")
	}

	fmt.Printf("Spend by category, %s to %s:\n\n", start.Format(dateFormat), end.Format(dateFormat))

	if len(rows) == 0 {
		fmt.Println("No transactions in this period.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tTRANSACTIONS\tTOTAL")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%d\t%s\n", row.CategoryName, row.TransactionCount, row.TotalAmount.FloatString(2))
	}
	w.Flush()
}
