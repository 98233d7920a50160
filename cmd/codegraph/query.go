package codegraph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	graph "github.com/Sacxy/codegraph"
	"github.com/Sacxy/codegraph/pkg/config"
	"github.com/Sacxy/codegraph/pkg/logger"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer one question about the codebase",
	Long: `Run the full query pipeline for a single question and print the result.

Example:
  codegraph query "How does login validate credentials?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

var (
	queryJSON    bool
	queryTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Print the raw result as JSON")
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 2*time.Minute, "Overall query timeout")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	client, err := graph.NewClient(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
	defer cancel()
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := client.Close(closeCtx); err != nil {
			log.Warn("client shutdown error", "error", err)
		}
	}()

	result := client.Answer(ctx, strings.Join(args, " "))

	if queryJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if result.Error {
		fmt.Printf("Query failed: %s\n", result.ErrorReason)
		return nil
	}

	fmt.Println(result.Summary)
	if len(result.Components) > 0 {
		fmt.Println("\nRelevant components:")
		for _, c := range result.Components {
			fmt.Printf("  [%s] %s (%.2f)\n", c.Type, c.Name, c.Relevance)
		}
	}
	if len(result.Claims) > 0 {
		fmt.Println("\nClaims:")
		for _, claim := range result.Claims {
			mark := "unverified"
			if claim.Verified {
				mark = "verified"
			}
			fmt.Printf("  %s -%s-> %s (%s)\n", claim.FromComponent, claim.RelationshipType, claim.ToComponent, mark)
		}
	}
	fmt.Printf("\nConfidence: %.2f  Verified: %t  Refinements: %d  Took: %s\n",
		result.Confidence,
		result.Metadata.Verified,
		result.Metadata.RefinementCount,
		result.Metadata.ProcessingTime.Round(time.Millisecond))
	return nil
}
