package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream live scoreboard updates",
		Long: `Connect to the server's SSE endpoint and stream events in real-time.

Events include:
  - connected: Stream established
  - scoreboard-update: Leaderboard and latest history after any change

Press Ctrl+C to disconnect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, cmd.OutOrStdout(), jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, w io.Writer, jsonOutput bool) error {
	url := strings.TrimSuffix(cfg.ServerURL, "/") + "/api/v1/events"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	httpClient := &http.Client{
		Timeout: 0, // No timeout for SSE
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !jsonOutput {
		fmt.Fprintf(w, "Connected to %s\n", cfg.ServerURL)
	}

	// Parse SSE stream
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" {
				printEvent(w, currentEvent, strings.Join(dataLines, "\n"), jsonOutput)
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	if err := scanner.Err(); err != nil {
		// Context cancellation is expected
		if ctx.Err() != nil {
			if !jsonOutput {
				fmt.Fprintln(w, "\nDisconnected")
			}
			return nil
		}
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

func printEvent(w io.Writer, event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		jsonData, _ := json.Marshal(SSEEvent{Time: now, Event: event, Data: data})
		fmt.Fprintln(w, string(jsonData))
		return
	}

	fmt.Fprintf(w, "[%s] %s: %s\n", now.Format("2006-01-02 15:04:05"), event, describeEvent(event, data))
}

// describeEvent renders scoreboard updates as a one-line leaderboard
func describeEvent(event, data string) string {
	if event != "scoreboard-update" {
		return truncate(data, 100)
	}

	var update struct {
		Leaderboard []Standing `json:"leaderboard"`
	}
	if err := json.Unmarshal([]byte(data), &update); err != nil {
		return truncate(data, 100)
	}
	if len(update.Leaderboard) == 0 {
		return "no players"
	}
	parts := make([]string, len(update.Leaderboard))
	for i, s := range update.Leaderboard {
		parts[i] = fmt.Sprintf("%d. %s %d", s.Rank, s.Player, s.Score)
	}
	return truncate(strings.Join(parts, ", "), 100)
}
