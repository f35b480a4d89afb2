package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const idempotencyKeyHeader = "Idempotency-Key"

type options struct {
	baseURL        string
	timeout        time.Duration
	idempotencyKey string
	rawJSON        bool
}

type balanceResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

type ledgerReport struct {
	Consistent bool            `json:"consistent"`
	EntryCount int64           `json:"entry_count"`
	Balance    decimal.Decimal `json:"balance"`
	BrokenAt   *int64          `json:"broken_at,omitempty"`
	Reason     string          `json:"reason,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "gowallet-cli",
		Short:         "GoWallet CLI tool",
		Long:          `A command line interface for interacting with the GoWallet API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the GoWallet API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.rawJSON, "json", false, "Print the raw JSON response")

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := opts.do(cmd.Context(), http.MethodGet, "/onlinewallet/balance", nil, http.StatusOK)
			if err != nil {
				return err
			}
			return opts.printBalance(cmd.OutOrStdout(), body)
		},
	}

	depositCmd := &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Deposit funds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.mutate(cmd, "/onlinewallet/deposit", args[0])
		},
	}

	withdrawCmd := &cobra.Command{
		Use:   "withdraw <amount>",
		Short: "Withdraw funds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.mutate(cmd, "/onlinewallet/withdraw", args[0])
		},
	}

	for _, cmd := range []*cobra.Command{depositCmd, withdrawCmd} {
		cmd.Flags().StringVar(&opts.idempotencyKey, "idempotency-key", "", "Idempotency-Key header to send")
	}

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the ledger entry chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.verify(cmd)
		},
	}

	ledgerCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(balanceCmd, depositCmd, withdrawCmd, ledgerCmd)

	return rootCmd
}

func (o *options) mutate(cmd *cobra.Command, path, rawAmount string) error {
	amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", rawAmount, err)
	}

	payload, err := json.Marshal(map[string]string{"amount": amount.String()})
	if err != nil {
		return err
	}

	body, err := o.do(cmd.Context(), http.MethodPost, path, payload, http.StatusOK)
	if err != nil {
		return err
	}
	return o.printBalance(cmd.OutOrStdout(), body)
}

func (o *options) verify(cmd *cobra.Command) error {
	body, err := o.do(cmd.Context(), http.MethodGet, "/onlinewallet/ledger/verify", nil, http.StatusOK, http.StatusConflict)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if o.rawJSON {
		fmt.Fprintln(out, strings.TrimSpace(string(body)))
	}

	var report ledgerReport
	if err := json.Unmarshal(body, &report); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if !report.Consistent {
		brokenAt := int64(0)
		if report.BrokenAt != nil {
			brokenAt = *report.BrokenAt
		}
		return fmt.Errorf("ledger verification FAILED at entry %d: %s", brokenAt, report.Reason)
	}

	if !o.rawJSON {
		fmt.Fprintf(out, "Ledger verification PASSED\nEntries: %d\nBalance: %s\n", report.EntryCount, report.Balance)
	}
	return nil
}

func (o *options) printBalance(out io.Writer, body []byte) error {
	if o.rawJSON {
		fmt.Fprintln(out, strings.TrimSpace(string(body)))
		return nil
	}

	var resp balanceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	fmt.Fprintf(out, "Balance: %s\n", resp.Amount)
	return nil
}

// do sends one request and returns the body when the status is one of want.
func (o *options) do(ctx context.Context, method, path string, payload []byte, want ...int) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(o.baseURL, "/")+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if o.idempotencyKey != "" && method == http.MethodPost {
		req.Header.Set(idempotencyKeyHeader, o.idempotencyKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	for _, code := range want {
		if resp.StatusCode == code {
			return body, nil
		}
	}

	return nil, apiError(resp.StatusCode, body)
}

func apiError(status int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		if errResp.Message != "" {
			return fmt.Errorf("request failed (status %d): %s: %s", status, errResp.Error, errResp.Message)
		}
		return fmt.Errorf("request failed (status %d): %s", status, errResp.Error)
	}
	return fmt.Errorf("request failed (status %d): %s", status, truncate(strings.TrimSpace(string(body)), 200))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
