package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fund-admin-gateway/backend"
	"fund-admin-gateway/config"
	"fund-admin-gateway/services"
	"fund-admin-gateway/utils"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.ReloadMailerConfig()

	var (
		yearID     int
		format     string
		outputPath string
		mailToRaw  string
		search     string
		statusID   int
	)

	flag.IntVar(&yearID, "year", 0, "fiscal year id to export (0 = all years)")
	flag.StringVar(&format, "format", "xlsx", "output format: xlsx or csv")
	flag.StringVar(&outputPath, "out", "", "output file path (default: generated name in the working directory)")
	flag.StringVar(&mailToRaw, "mail-to", "", "comma separated recipients for the report email (optional)")
	flag.StringVar(&search, "search", "", "substring filter over the aggregated rows (optional)")
	flag.IntVar(&statusID, "status", 0, "status id filter (optional)")
	flag.Parse()

	if format != "xlsx" && format != "csv" {
		log.Fatal("format must be xlsx or csv")
	}
	recipients, err := parseRecipients(mailToRaw)
	if err != nil {
		log.Fatalf("invalid recipients: %v", err)
	}
	if len(recipients) > 0 && format != "xlsx" {
		log.Fatal("report email requires the xlsx format")
	}

	ctx := context.Background()
	client := backend.NewClient(
		config.BackendBaseURL(),
		config.BackendFileBaseURL(),
		config.BackendAPIToken(),
		&http.Client{Timeout: config.BackendTimeout()},
	)

	statuses := utils.NewStatusLookup(client.StatusFetcher())
	aggregator := services.NewAggregator(client, statuses, config.AggregatePageSize(), config.AggregateMaxRows())
	enricher := services.NewEnricher(client, services.NewDetailCache())
	builder := services.NewExportBuilder(enricher, statuses, client)

	snapshot, err := aggregator.Refresh(ctx, yearID)
	if err != nil {
		log.Fatalf("aggregation failed: %v", err)
	}

	filters := services.Filters{Search: search}
	if statusID > 0 {
		filters.StatusID = &statusID
	}
	filtered := services.FilterSubmissions(ctx, snapshot.Rows, filters, statuses)
	services.SortSubmissions(filtered, "created_at", "desc")

	rows, err := builder.BuildRows(ctx, filtered)
	if err != nil {
		log.Fatalf("export build failed: %v", err)
	}

	label := resolveYearLabel(ctx, client, yearID)
	if outputPath == "" {
		outputPath = services.ExportFilename(label, format)
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			log.Fatalf("failed to create output directory: %v", err)
		}
	}

	switch format {
	case "csv":
		data, err := builder.WriteCSV(rows)
		if err != nil {
			log.Fatalf("csv write failed: %v", err)
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			log.Fatalf("failed to write %s: %v", outputPath, err)
		}
	default:
		file, err := builder.WriteXLSX("รายงานคำร้องทุนวิจัย ปีงบประมาณ "+label, rows)
		if err != nil {
			log.Fatalf("xlsx write failed: %v", err)
		}
		if err := file.SaveAs(outputPath); err != nil {
			log.Fatalf("failed to write %s: %v", outputPath, err)
		}
	}

	fmt.Printf("Exported %d submissions to %s\n", len(rows), outputPath)

	if len(recipients) > 0 {
		if err := services.MailReport(recipients, label, outputPath, len(rows)); err != nil {
			log.Fatalf("report email failed: %v", err)
		}
		fmt.Printf("Report emailed to %s\n", strings.Join(recipients, ", "))
	}
}

func parseRecipients(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var recipients []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !utils.ValidateEmail(part) {
			return nil, fmt.Errorf("invalid email address '%s'", part)
		}
		recipients = append(recipients, part)
	}
	return recipients, nil
}

func resolveYearLabel(ctx context.Context, client *backend.Client, yearID int) string {
	if yearID <= 0 {
		return "all"
	}
	years, err := client.GetYears(ctx)
	if err != nil {
		return fmt.Sprintf("%d", yearID)
	}
	for _, year := range years {
		if year.YearID == yearID && year.Year != "" {
			return year.Year
		}
	}
	return fmt.Sprintf("%d", yearID)
}
