package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
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
		Use:   "payouts-cli",
		Short: "Payouts CLI tool",
		Long:  `A command line interface for interacting with the payouts API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the payouts API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for admin operations")

	// Rate commands
	rateCmd := &cobra.Command{
		Use:   "rate",
		Short: "Show the current exchange rate",
		Run: func(cmd *cobra.Command, args []string) {
			showRate()
		},
	}
	rootCmd.AddCommand(rateCmd)

	// Entry commands
	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Entry operations",
	}

	entryGetCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an entry",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showEntry(args[0])
		},
	}

	entryStatusCmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Transition an entry's status",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			setStatus(args[0], args[1])
		},
	}

	entryHistoryCmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show an entry's history timeline",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showHistory(args[0])
		},
	}

	entryCmd.AddCommand(entryGetCmd, entryStatusCmd, entryHistoryCmd)
	rootCmd.AddCommand(entryCmd)

	// Network commands
	networksCmd := &cobra.Command{
		Use:   "networks",
		Short: "List supported crypto networks",
		Run: func(cmd *cobra.Command, args []string) {
			listNetworks()
		},
	}
	rootCmd.AddCommand(networksCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func doRequest(method, path string, body io.Reader) []byte {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	return respBody
}

func showRate() {
	body := doRequest(http.MethodGet, "/api/v1/rates", nil)

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%v/%v: %v\n", result["base"], result["quote"], result["rate"])
}

func showEntry(id string) {
	body := doRequest(http.MethodGet, "/api/v1/entries/"+id, nil)

	var pretty map[string]any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}

func setStatus(id, status string) {
	payload := fmt.Sprintf(`{"status": %q}`, status)
	body := doRequest(http.MethodPut, "/api/v1/entries/"+id+"/status", strings.NewReader(payload))

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Entry %v is now %v\n", result["id"], result["status"])
}

func showHistory(id string) {
	body := doRequest(http.MethodGet, "/api/v1/entries/"+id+"/history", nil)

	var records []map[string]any
	if err := json.Unmarshal(body, &records); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("No history records")
		return
	}

	for _, rec := range records {
		actor := "system"
		if name, ok := rec["actor_name"].(string); ok && name != "" {
			actor = name
		}
		fmt.Printf("%4.0f  %-30v %-16v by %s at %v\n",
			rec["sequence"], rec["message_key"], rec["kind"], actor, rec["recorded_at"])
	}
}

func listNetworks() {
	body := doRequest(http.MethodGet, "/api/v1/networks", nil)

	var networks []map[string]any
	if err := json.Unmarshal(body, &networks); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, n := range networks {
		fmt.Printf("%-8v %-16v %v\n", n["code"], n["name"], n["address_pattern"])
	}
}
