// cmd/matchctl/score.go
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"influencer-matching/internal/matching"
	"influencer-matching/internal/models"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one business against one influencer from profile JSON files",
		Args:  cobra.NoArgs,
		RunE:  runScore,
	}
	cmd.Flags().StringP("business", "b", "", "path to a business profile JSON file")
	cmd.Flags().StringP("influencer", "i", "", "path to an influencer profile JSON file")
	cmd.Flags().Int64("max-followers", 0, "follower ceiling used when the business sets none")
	cmd.MarkFlagRequired("business")
	cmd.MarkFlagRequired("influencer")
	return cmd
}

func runScore(cmd *cobra.Command, _ []string) error {
	businessPath, _ := cmd.Flags().GetString("business")
	influencerPath, _ := cmd.Flags().GetString("influencer")

	var business models.BusinessProfile
	if err := readProfile(businessPath, &business); err != nil {
		return err
	}
	var influencer models.InfluencerProfile
	if err := readProfile(influencerPath, &influencer); err != nil {
		return err
	}

	maxFollowers, _ := cmd.Flags().GetInt64("max-followers")
	if maxFollowers == 0 {
		maxFollowers = viper.GetInt64("matching.default_max_followers")
	}

	score, err := matching.NewScorer(matching.ScorerConfig{DefaultMaxFollowers: maxFollowers}).Score(&business, &influencer)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(score)
	}

	fmt.Fprintf(out, "business:   %s\n", business.ID)
	fmt.Fprintf(out, "influencer: %s\n", influencer.ID)
	fmt.Fprintf(out, "score:      %.2f\n", score.Score)
	for _, f := range models.Factors {
		fmt.Fprintf(out, "  %-11s %.4f\n", f, score.Breakdown[f])
	}
	return nil
}

func readProfile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse profile %s: %w", path, err)
	}
	return nil
}
