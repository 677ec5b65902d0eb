package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	// .env is optional; flags and environment win over defaults
	_ = godotenv.Load()

	defaultURL := os.Getenv("BOOKLEDGER_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}

	rootCmd := &cobra.Command{
		Use:   "bookledger-cli",
		Short: "BookLedger CLI tool",
		Long:  `A command line interface for driving the BookLedger pipeline.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", defaultURL, "Base URL of the BookLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(stagingCommand())
	rootCmd.AddCommand(trialCommand())
	rootCmd.AddCommand(journalCommand())
	rootCmd.AddCommand(accountCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func stagingCommand() *cobra.Command {
	stagingCmd := &cobra.Command{
		Use:   "staging",
		Short: "Staged bank transaction operations",
	}

	var (
		source      string
		date        string
		description string
		amount      string
		entity      string
	)

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Stage one bank transaction",
		Run: func(cmd *cobra.Command, args []string) {
			txDate, err := time.Parse("2006-01-02", date)
			if err != nil {
				fail("invalid --date, want YYYY-MM-DD: %v", err)
			}
			result := request(http.MethodPost, "/api/v1/staging", map[string]any{
				"source_account_code": source,
				"transaction_date":    txDate.Format(time.RFC3339),
				"description":         description,
				"amount":              amount,
				"entity":              entity,
			})
			printResult("staged", result)
		},
	}
	importCmd.Flags().StringVar(&source, "source", "", "Source bank account code")
	importCmd.Flags().StringVar(&date, "date", "", "Transaction date (YYYY-MM-DD)")
	importCmd.Flags().StringVar(&description, "description", "", "Bank statement description")
	importCmd.Flags().StringVar(&amount, "amount", "", "Signed amount, negative for outflow")
	importCmd.Flags().StringVar(&entity, "entity", "", "Entity the transaction belongs to")
	importCmd.MarkFlagRequired("source")
	importCmd.MarkFlagRequired("date")
	importCmd.MarkFlagRequired("amount")
	importCmd.MarkFlagRequired("entity")

	var account string
	assignCmd := &cobra.Command{
		Use:   "assign <staging-id>",
		Short: "Manually assign an account to a staged transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result := request(http.MethodPut, "/api/v1/staging/"+args[0]+"/account", map[string]any{
				"account_code": account,
			})
			printResult("assigned", result)
		},
	}
	assignCmd.Flags().StringVar(&account, "account", "", "Account code to assign")
	assignCmd.MarkFlagRequired("account")

	var summaryEntity string
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show staged-row counts by categorization outcome",
		Run: func(cmd *cobra.Command, args []string) {
			result := request(http.MethodGet, entityPath("/api/v1/staging/summary", summaryEntity), nil)
			printResult("staging summary", result)
		},
	}
	summaryCmd.Flags().StringVar(&summaryEntity, "entity", "", "Restrict to one entity")

	stagingCmd.AddCommand(importCmd)
	stagingCmd.AddCommand(assignCmd)
	stagingCmd.AddCommand(summaryCmd)

	return stagingCmd
}

// parseDateFlag converts a YYYY-MM-DD flag value to RFC 3339 for the API.
func parseDateFlag(flag, value string) string {
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		fail("invalid %s, want YYYY-MM-DD: %v", flag, err)
	}

	return day.Format(time.RFC3339)
}

// entityPath appends an optional entity query parameter.
func entityPath(path, entity string) string {
	if entity == "" {
		return path
	}

	return path + "?entity=" + url.QueryEscape(entity)
}

func trialCommand() *cobra.Command {
	trialCmd := &cobra.Command{
		Use:   "trial",
		Short: "Trial phase operations",
	}

	var entity string

	var from, to string
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build candidate entries from staged transactions",
		Run: func(cmd *cobra.Command, args []string) {
			payload := map[string]any{"entity": entity}
			if from != "" {
				payload["date_from"] = parseDateFlag("--from", from)
			}
			if to != "" {
				payload["date_to"] = parseDateFlag("--to", to)
			}
			result := request(http.MethodPost, "/api/v1/trial/build", payload)
			printResult("build complete", result)
		},
	}
	buildCmd.Flags().StringVar(&entity, "entity", "", "Restrict to one entity")
	buildCmd.Flags().StringVar(&from, "from", "", "Earliest transaction date (YYYY-MM-DD)")
	buildCmd.Flags().StringVar(&to, "to", "", "Latest transaction date (YYYY-MM-DD)")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the trial working set",
		Run: func(cmd *cobra.Command, args []string) {
			result := request(http.MethodPost, "/api/v1/trial/validate", map[string]any{})
			printResult("validation complete", result)
		},
	}

	var matchEntity string
	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "Match internal transfer pairs",
		Run: func(cmd *cobra.Command, args []string) {
			result := request(http.MethodPost, "/api/v1/trial/match-transfers", map[string]any{"entity": matchEntity})
			printResult("matching complete", result)
		},
	}
	matchCmd.Flags().StringVar(&matchEntity, "entity", "", "Restrict to one entity")

	var summaryEntity string
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show candidate-entry counts per status",
		Run: func(cmd *cobra.Command, args []string) {
			result := request(http.MethodGet, entityPath("/api/v1/trial/summary", summaryEntity), nil)
			printResult("trial summary", result)
		},
	}
	summaryCmd.Flags().StringVar(&summaryEntity, "entity", "", "Restrict to one entity")

	trialCmd.AddCommand(buildCmd)
	trialCmd.AddCommand(validateCmd)
	trialCmd.AddCommand(matchCmd)
	trialCmd.AddCommand(summaryCmd)

	return trialCmd
}

func journalCommand() *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Journal operations",
	}

	var (
		entity   string
		postedBy string
	)

	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Post balanced entries to the journal",
		Run: func(cmd *cobra.Command, args []string) {
			result := request(http.MethodPost, "/api/v1/journal/post", map[string]any{
				"entity":    entity,
				"posted_by": postedBy,
			})
			printResult("posting complete", result)
		},
	}
	postCmd.Flags().StringVar(&entity, "entity", "", "Restrict to one entity")
	postCmd.Flags().StringVar(&postedBy, "by", "", "Operator performing the posting")
	postCmd.MarkFlagRequired("by")

	var (
		reason string
		actor  string
	)
	reverseCmd := &cobra.Command{
		Use:   "reverse <entry-id>",
		Short: "Reverse a posted journal entry",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result := request(http.MethodPost, "/api/v1/journal/"+args[0]+"/reverse", map[string]any{
				"reason": reason,
				"actor":  actor,
			})
			printResult("reversed", result)
		},
	}
	reverseCmd.Flags().StringVar(&reason, "reason", "", "Why the entry is being reversed")
	reverseCmd.Flags().StringVar(&actor, "actor", "", "Operator performing the reversal")
	reverseCmd.MarkFlagRequired("reason")
	reverseCmd.MarkFlagRequired("actor")

	journalCmd.AddCommand(postCmd)
	journalCmd.AddCommand(reverseCmd)

	return journalCmd
}

func accountCommand() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account registry operations",
	}

	balanceCmd := &cobra.Command{
		Use:   "balance <code>",
		Short: "Show the journal balance for an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result := request(http.MethodGet, "/api/v1/accounts/"+args[0]+"/balance", nil)
			printResult("balance", result)
		},
	}

	accountCmd.AddCommand(balanceCmd)

	return accountCmd
}

// request performs an API call and exits on transport or API errors.
func request(method, path string, payload map[string]any) map[string]any {
	client := &http.Client{Timeout: timeout}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fail("failed to encode request: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fail("failed to build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fail("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fail("API error (status %d): %s", resp.StatusCode, string(data))
	}

	var result map[string]any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &result); err != nil {
			fail("failed to parse response: %v", err)
		}
	}

	return result
}

func printResult(label string, result map[string]any) {
	fmt.Println(color.GreenString("%s", label))
	for _, key := range sortedKeys(result) {
		fmt.Printf("  %s: %v\n", key, result[key])
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func fail(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.RedString(format, args...))
	os.Exit(1)
}
