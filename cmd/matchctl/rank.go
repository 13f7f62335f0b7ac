package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/logger"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates for a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return rank(cmd)
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Print the compatibility breakdown for one pair",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(scoreCmd)

	rankCmd.Flags().StringP("user", "u", "", "requester user ID")
	rankCmd.Flags().IntP("limit", "n", 0, "number of candidates (default: matching.top-n)")
	rankCmd.Flags().StringP("profiles", "p", "", "score offline from a JSON file of profiles instead of the database")
	rankCmd.Flags().StringP("output", "o", "table", "output format: table or json")
	_ = rankCmd.MarkFlagRequired("user")

	scoreCmd.Flags().String("requester", "", "requester user ID")
	scoreCmd.Flags().String("candidate", "", "candidate user ID")
	scoreCmd.Flags().StringP("profiles", "p", "", "score offline from a JSON file of profiles instead of the database")
	_ = scoreCmd.MarkFlagRequired("requester")
	_ = scoreCmd.MarkFlagRequired("candidate")
}

func rank(cmd *cobra.Command) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	config, err := getConfig()
	if err != nil {
		return err
	}

	userID, _ := cmd.Flags().GetString("user")
	limit, _ := cmd.Flags().GetInt("limit")
	profilesPath, _ := cmd.Flags().GetString("profiles")
	output, _ := cmd.Flags().GetString("output")

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	var scores []*model.CompatibilityScore
	if profilesPath != "" {
		set, err := loadProfiles(profilesPath)
		if err != nil {
			return err
		}
		log.Debug("loaded profiles", zap.String("path", profilesPath), zap.Int("count", len(set)))

		ranked, err := set.rank(ctx, newScorer(config.Matching, nil), userID, limit)
		if err != nil {
			return err
		}
		for _, r := range ranked {
			scores = append(scores, r.Score)
		}
	} else {
		db, err := openDB(ctx, config.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		resp, err := newDiscoveryService(db, config.Matching).Rank(ctx, userID, limit)
		if err != nil {
			return err
		}
		log.Debug("ranked candidate pool", zap.String("user_id", userID), zap.Int("pool_size", resp.PoolSize))
		for _, c := range resp.Candidates {
			scores = append(scores, c.Score)
		}
	}

	for _, s := range scores {
		log.Debug("ranked", logger.Score(s.RequesterID, s.CandidateID, s.OverallScore)...)
	}
	log.Info("ranking complete", zap.String("user_id", userID), zap.Int("results", len(scores)))

	if output == "json" {
		return printJSON(os.Stdout, scores)
	}
	return printRanking(os.Stdout, scores)
}

func score(cmd *cobra.Command) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	config, err := getConfig()
	if err != nil {
		return err
	}

	requesterID, _ := cmd.Flags().GetString("requester")
	candidateID, _ := cmd.Flags().GetString("candidate")
	profilesPath, _ := cmd.Flags().GetString("profiles")

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	var result *model.CompatibilityScore
	if profilesPath != "" {
		set, err := loadProfiles(profilesPath)
		if err != nil {
			return err
		}
		result, err = set.score(ctx, newScorer(config.Matching, nil), requesterID, candidateID)
		if err != nil {
			return err
		}
	} else {
		db, err := openDB(ctx, config.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		result, err = newDiscoveryService(db, config.Matching).GetCompatibility(ctx, requesterID, candidateID)
		if err != nil {
			return err
		}
	}

	log.Info("scored pair", logger.Score(result.RequesterID, result.CandidateID, result.OverallScore)...)
	return printJSON(os.Stdout, result)
}
