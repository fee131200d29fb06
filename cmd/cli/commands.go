package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(registerPlayerCmd)
	rootCmd.AddCommand(submitResultCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/health", nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/players", nil)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches [status]",
	Short: "List matches, optionally filtered by status (draft or completed)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/matches"
		if len(args) == 1 {
			endpoint += "?status=" + url.QueryEscape(args[0])
		}
		return performRequest("GET", endpoint, nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [match-type]",
	Short: "Show the current season standings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/leaderboard"
		if len(args) == 1 {
			endpoint += "?match_type=" + url.QueryEscape(args[0])
		}
		return performRequest("GET", endpoint, nil)
	},
}

var registerPlayerCmd = &cobra.Command{
	Use:   "register-player <name>",
	Short: "Register a new player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("POST", "/players", map[string]string{"name": args[0]})
	},
}

var submitResultCmd = &cobra.Command{
	Use:   "submit-result <match-id> <blue-score> <red-score>",
	Short: "Submit the final score for a draft match",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		blue, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid blue score: %w", err)
		}
		red, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid red score: %w", err)
		}
		return performRequest("PUT", "/matches/"+args[0]+"/result", map[string]int{
			"blue_score": blue,
			"red_score":  red,
		})
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/metrics", nil)
	},
}

func performRequest(method, endpoint string, payload any) error {
	reqURL := host + endpoint
	fmt.Printf("Making request to %s\n", reqURL)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
