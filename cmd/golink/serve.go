package main

import (
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/golink/ranger"
)

type serveOptions struct {
	Env      string
	Port     string
	StoreURL string
}

func newServeCommand() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the golink web server",
		Long: `Run the golink web server until interrupted.

Configuration is read from env vars, and a .env file, as documented by package ranger.
Flags override their env var.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rng, err := ranger.New(opts.rangerOptions(cmd)...)
			if err != nil {
				return err
			}

			return rng.Guide()
		},
	}
	cmd.Flags().StringVar(&opts.Env, "env", "", "Environment to run in, overriding ENVIRONMENT")
	cmd.Flags().StringVar(&opts.Port, "port", "", "Port to listen on, overriding PORT")
	cmd.Flags().StringVar(&opts.StoreURL, "store", "", "Where redirects are kept, overriding STORE_URL")

	return cmd
}

// rangerOptions translates the set flags into ranger options.
func (opts serveOptions) rangerOptions(cmd *cobra.Command) []ranger.RangerOption {
	rangerOpts := []ranger.RangerOption{ranger.WithEnv(opts.Env)}
	if ctx := cmd.Context(); ctx != nil {
		rangerOpts = append(rangerOpts, ranger.WithContext(ctx))
	}

	if opts.Port != "" {
		rangerOpts = append(rangerOpts, ranger.WithPort(opts.Port))
	}

	if opts.StoreURL != "" {
		rangerOpts = append(rangerOpts, ranger.WithStoreURL(opts.StoreURL))
	}

	return rangerOpts
}
