package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/finshield/muleguard/internal/domain"
	"github.com/finshield/muleguard/internal/ingest"
	"github.com/finshield/muleguard/internal/pipeline"
)

func main() {
	var (
		inputPath string
		format    string
	)
	flag.StringVar(&inputPath, "input", "", "path to a JSON transaction batch (defaults to stdin)")
	flag.StringVar(&format, "format", "json", "output format: json or table")
	flag.Parse()

	in, err := openInput(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	txs, err := ingest.Decode(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}

	run := pipeline.RunTracked(txs, nil)

	switch format {
	case "table":
		renderTable(run.Report)
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(run.Report); err != nil {
			fmt.Fprintf(os.Stderr, "analyze: encode report: %v\n", err)
			os.Exit(1)
		}
	}
}

func openInput(path string) (*os.File, error) {
	if path == "" {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func renderTable(report domain.Report) {
	fmt.Printf("accounts analyzed: %d   suspicious flagged: %d   rings detected: %d   processing: %ss\n\n",
		report.Summary.TotalAccountsAnalyzed,
		report.Summary.SuspiciousAccountsFlagged,
		report.Summary.FraudRingsDetected,
		strconv.FormatFloat(report.Summary.ProcessingTimeSeconds, 'f', 3, 64),
	)

	ringTable := tablewriter.NewWriter(os.Stdout)
	ringTable.SetHeader([]string{"Ring ID", "Pattern", "Risk", "Members"})
	for _, ring := range report.FraudRings {
		ringTable.Append([]string{
			ring.RingID,
			string(ring.PatternType),
			strconv.FormatFloat(ring.RiskScore, 'f', 1, 64),
			fmt.Sprintf("%d accounts", len(ring.MemberAccounts)),
		})
	}
	ringTable.Render()

	fmt.Println()

	accountTable := tablewriter.NewWriter(os.Stdout)
	accountTable.SetHeader([]string{"Account", "Score", "Ring", "Patterns"})
	for _, acc := range report.SuspiciousAccounts {
		ringID := "-"
		if acc.RingID != nil {
			ringID = *acc.RingID
		}
		accountTable.Append([]string{
			acc.AccountID,
			strconv.FormatFloat(acc.SuspicionScore, 'f', 1, 64),
			ringID,
			fmt.Sprintf("%v", acc.DetectedPatterns),
		})
	}
	accountTable.Render()
}
