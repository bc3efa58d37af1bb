// syncctl is a small operator CLI for a running flowsync server.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"flowsync/pkg/models"
)

var (
	serverURL string
	envFile   string
)

func main() {
	root := &cobra.Command{
		Use:           "syncctl",
		Short:         "Operate a flowsync server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file: %w", err)
				}
			}
			if url := os.Getenv("FLOWSYNC_SERVER_URL"); serverURL == "" && url != "" {
				serverURL = url
			}
			if serverURL == "" {
				serverURL = "http://localhost:8080"
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "", "flowsync server URL (default $FLOWSYNC_SERVER_URL or http://localhost:8080)")
	root.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file")

	root.AddCommand(reconcileCmd(), listCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Run one reconciliation pass and print its counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: 5 * time.Minute}
			resp, err := client.Post(serverURL+"/api/v1/reconcile", "application/json", nil)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned status %d", resp.StatusCode)
			}

			var stats struct {
				Synced  int `json:"synced"`
				Created int `json:"created"`
				Deleted int `json:"deleted"`
				Errors  int `json:"errors"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			fmt.Printf("Reconciliation completed: %d synced, %d created, %d deleted, %d errors\n",
				stats.Synced, stats.Created, stats.Deleted, stats.Errors)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List integrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := serverURL + "/api/v1/integrations"
			if owner != "" {
				url += "?owner=" + owner
			}

			client := &http.Client{Timeout: 30 * time.Second}
			resp, err := client.Get(url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned status %d", resp.StatusCode)
			}

			var integrations []models.Integration
			if err := json.NewDecoder(resp.Body).Decode(&integrations); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFLOW\tSOURCE\tTARGET\tSTATUS\tWORKFLOW")
			for _, i := range integrations {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					i.ID, i.FlowName, i.SourceApp, i.TargetApp, i.Status, i.WorkflowID)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "filter by owner")
	return cmd
}
