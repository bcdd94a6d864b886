package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "allowance-cli",
		Short: "Allowance ledger CLI tool",
		Long:  `A command line interface for interacting with the allowance ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the allowance ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("ALLOWANCE_TOKEN"), "API token (defaults to ALLOWANCE_TOKEN)")

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(statementCmd())
	rootCmd.AddCommand(dailyLimitCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Authenticate and print an API token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := fmt.Sprintf(`{"username":%q,"password":%q}`, args[0], args[1])
			return doRequest(http.MethodPost, "/api/v1/login", strings.NewReader(body))
		},
	}
}

func accountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/acc", nil)
		},
	}
}

func statementCmd() *cobra.Command {
	var childEmail, dateStart, dateEnd string

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Show a transaction statement",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, statementPath(childEmail, dateStart, dateEnd), nil)
		},
	}

	cmd.Flags().StringVar(&childEmail, "child", "", "Child email (parents only; empty shows own statement)")
	cmd.Flags().StringVar(&dateStart, "date-start", "", "Window start, YYYY-MM-DD")
	cmd.Flags().StringVar(&dateEnd, "date-end", "", "Window end, YYYY-MM-DD")

	return cmd
}

// statementPath picks the own or child endpoint and appends the date window.
func statementPath(childEmail, dateStart, dateEnd string) string {
	path := "/api/v1/acc/transactions"
	q := url.Values{}

	if childEmail != "" {
		path = "/api/v1/acc/transactions-for"
		q.Set("child_email", childEmail)
	}
	if dateStart != "" {
		q.Set("date_start", dateStart)
	}
	if dateEnd != "" {
		q.Set("date_end", dateEnd)
	}

	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func dailyLimitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily-limit",
		Short: "Daily spending limit operations",
	}

	getCmd := &cobra.Command{
		Use:   "get <child-email>",
		Short: "Show a child's daily limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{"child_email": {args[0]}}
			return doRequest(http.MethodGet, "/api/v1/acc/daily-limit-for?"+q.Encode(), nil)
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <child-email> <limit>",
		Short: "Set a child's daily limit (0 removes the cap)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := fmt.Sprintf(`{"child_email":%q,"daily_limit":%q}`, args[0], args[1])
			return doRequest(http.MethodPut, "/api/v1/acc/daily-limit-for", strings.NewReader(body))
		},
	}

	cmd.AddCommand(getCmd)
	cmd.AddCommand(setCmd)

	return cmd
}

func reconcileCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check recorded balances against transaction history",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/acc/reconciliation"
			if title != "" {
				q := url.Values{"title": {title}}
				path += "?" + q.Encode()
			}
			return doRequest(http.MethodGet, path, nil)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Reconcile a single account by title")

	return cmd
}

func doRequest(method, path string, body io.Reader) error {
	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed any
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		fmt.Println(strings.TrimSpace(string(respBody)))
		return nil
	}

	printJSON(parsed)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(out))
}
