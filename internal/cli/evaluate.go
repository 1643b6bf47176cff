package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tutu-network/kudos/internal/daemon"
	"github.com/tutu-network/kudos/internal/domain"
)

func init() {
	evaluateCmd.Flags().StringVarP(&evalFile, "file", "f", "-", "Request JSON file (- for stdin)")
	evaluateCmd.Flags().StringVar(&evalToday, "today", "", "Evaluate as of this date (YYYY-MM-DD)")
	evaluateCmd.Flags().Uint64Var(&evalSeed, "seed", 0, "Template selection seed (overrides config)")
	rootCmd.AddCommand(evaluateCmd)
}

var (
	evalFile  string
	evalToday string
	evalSeed  uint64
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one request offline and print the response",
	Example: `  kudos evaluate -f request.json
  kudos evaluate -f request.json --today 2024-06-10 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	req, err := readRequest(cmd, evalFile)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	var today time.Time
	if evalToday != "" {
		if today, err = time.ParseInLocation(domain.DateLayout, evalToday, time.Local); err != nil {
			return fmt.Errorf("--today: %w", err)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if evalSeed != 0 {
		cfg.Engine.Seed = evalSeed
	}

	d, err := daemon.NewWithConfig(cfg, rootCmd.Version)
	if err != nil {
		return err
	}
	defer d.Close()

	if !today.IsZero() {
		d.SetClock(func() time.Time { return today })
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(d.Evaluator.Evaluate(req))
}

func readRequest(cmd *cobra.Command, path string) (domain.SocialNudgeRequest, error) {
	var req domain.SocialNudgeRequest

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, err
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}
