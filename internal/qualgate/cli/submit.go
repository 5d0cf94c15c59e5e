package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/qualgate/qualgate/internal/qualgate/scoreapi"
)

var submitScore float64

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a quality score to the scoring service",
	Long: `Sends a single score to the scoring endpoint from the config. The score
is duplicated into the service's quality and coverage fields, matching what
the ingestion side expects. No retries: a failed submission exits non-zero.`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().Float64Var(&submitScore, "score", 0, "Quality score to submit (required)")
	submitCmd.MarkFlagRequired("score")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.API.Endpoint == "" {
		return fmt.Errorf("api.endpoint not configured")
	}

	client := scoreapi.NewClient(cfg.API.Endpoint, cfg.API.Token, cfg.Project)
	sub, err := client.Submit(cmd.Context(), submitScore, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s: quality %.2f at %s\n", sub.ID, sub.Quality, sub.Timestamp)
	return nil
}
