package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/repository"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/service"
	"github.com/irecommend-mm/loveconnect-mm-sub001/pkg/jwt"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development access token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return mintToken(cmd)
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate an RS256 signing key pair",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return generateKeys(cmd)
	},
}

var seedZodiacCmd = &cobra.Command{
	Use:   "seed-zodiac",
	Short: "Load the built-in zodiac compatibility table into the database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return seedZodiac(cmd)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(seedZodiacCmd)

	tokenCmd.Flags().StringP("user", "u", "", "user ID for the token")
	tokenCmd.Flags().String("email", "", "email claim")
	tokenCmd.Flags().String("role", "user", "role claim: user or admin")
	tokenCmd.Flags().Int("exp", 0, "token expiration in minutes (default: jwt.expiration-mins)")
	_ = tokenCmd.MarkFlagRequired("user")

	keysCmd.Flags().String("private", "", "private key path (default: jwt.private-key)")
	keysCmd.Flags().String("public", "", "public key path (default: jwt.public-key)")
}

func mintToken(cmd *cobra.Command) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	config, err := getConfig()
	if err != nil {
		return err
	}

	userID, _ := cmd.Flags().GetString("user")
	email, _ := cmd.Flags().GetString("email")
	role, _ := cmd.Flags().GetString("role")
	expMins, _ := cmd.Flags().GetInt("exp")
	if expMins <= 0 {
		expMins = config.JWT.ExpirationMins
	}

	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: config.JWT.PrivateKey,
		Issuer:         config.JWT.Issuer,
		ExpirationMins: expMins,
	})
	if err != nil {
		return fmt.Errorf("creating JWT service (generate keys with `%s keys`): %w", app, err)
	}

	token, err := jwtService.Sign(jwt.Claims{UserID: userID, Email: email, Role: role})
	if err != nil {
		return err
	}

	log.Info("token minted",
		zap.String("user_id", userID),
		zap.String("role", role),
		zap.Time("expires", time.Now().Add(time.Duration(expMins)*time.Minute)),
	)

	if viper.GetBool("json") {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   expMins * 60,
			"user_id":      userID,
		})
	}
	fmt.Println(token)
	return nil
}

func generateKeys(cmd *cobra.Command) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	config, err := getConfig()
	if err != nil {
		return err
	}

	privatePath, _ := cmd.Flags().GetString("private")
	publicPath, _ := cmd.Flags().GetString("public")
	if privatePath == "" {
		privatePath = config.JWT.PrivateKey
	}
	if publicPath == "" {
		publicPath = config.JWT.PublicKey
	}

	for _, dir := range []string{filepath.Dir(privatePath), filepath.Dir(publicPath)} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}

	if err := jwt.GenerateKeyPair(privatePath, publicPath); err != nil {
		return err
	}

	log.Info("key pair written", zap.String("private", privatePath), zap.String("public", publicPath))
	return nil
}

func seedZodiac(cmd *cobra.Command) error {
	log := newLogger()
	defer func() { _ = log.Sync() }()

	config, err := getConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	db, err := openDB(ctx, config.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	pairs := service.NewStaticZodiacTable().Pairs()
	if err := repository.NewZodiacRepository(db).Seed(ctx, pairs); err != nil {
		return err
	}

	log.Info("zodiac table seeded", zap.Int("pairs", len(pairs)))
	return nil
}
