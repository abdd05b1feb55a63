// Command ezauth inspects EZ Auth tokens and builds the authority's redirect
// URLs. Configuration is read the same way as the library: flags, then
// EZ_AUTH_CLIENT_* environment variables, then an ezauth.yaml file.
package main

import (
	"fmt"
	"os"

	"github.com/gooby/ezauth"
	"github.com/gooby/ezauth/logging"
	"github.com/spf13/cobra"
)

type options struct {
	secret  string
	server  string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "ezauth",
		Short:         "EZ Auth client tools",
		Long:          `Verify EZ Auth tokens and print the login, logout and forbidden URLs of an EZ Auth server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.secret, "secret", "", "Shared secret (env: "+ezauth.EnvSecret+")")
	rootCmd.PersistentFlags().StringVar(&opts.server, "server", "", "EZ Auth server URL (env: "+ezauth.EnvServer+")")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(verifyCmd(opts))
	rootCmd.AddCommand(loginURLCmd(opts))
	rootCmd.AddCommand(logoutURLCmd(opts))
	rootCmd.AddCommand(forbiddenURLCmd(opts))

	return rootCmd
}

func (o *options) client() (*ezauth.Client, error) {
	values := map[string]interface{}{}
	if o.secret != "" {
		values["secret"] = o.secret
	}
	if o.server != "" {
		values["server"] = o.server
	}
	logger := logging.NewNopLogger()
	if o.verbose {
		logger = logging.NewDevLogger()
	}
	return ezauth.FromConfig(values, ezauth.WithLogger(logger))
}
