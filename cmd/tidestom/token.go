package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tidestom/internal/auth"
	"tidestom/internal/config"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		submitter int64
		ttl       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a submitter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if submitter <= 0 {
				return errors.New("--submitter must be a positive person id")
			}
			cfg, err := config.Load(opts.configPath, opts.envOnly)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
				return errors.New("auth.jwt_secret is not configured")
			}
			signer := auth.JWT{Secret: []byte(cfg.Auth.JWTSecret), TokenTTL: cfg.Auth.TokenTTL}
			if ttl > 0 {
				signer.TokenTTL = ttl
			}
			token, expiresAt, err := signer.Sign(auth.Claims{SubmitterID: submitter})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().Int64Var(&submitter, "submitter", 0, "submitter (person) id carried by the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime; defaults to auth.token_ttl")
	_ = cmd.MarkFlagRequired("submitter")
	return cmd
}
