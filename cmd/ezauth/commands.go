package main

import (
	"encoding/json"
	"fmt"

	"github.com/gooby/ezauth"
	"github.com/spf13/cobra"
)

func verifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Verify a token and print the user it describes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			claims, err := client.Verify(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ezauth.NewIdentity(claims))
		},
	}
}

func loginURLCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "login-url [return-to]",
		Short: "Print the login URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			var returnTo string
			if len(args) == 1 {
				returnTo = args[0]
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.LoginURL(returnTo))
			return nil
		},
	}
}

func logoutURLCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout-url",
		Short: "Print the logout URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.LogoutURL())
			return nil
		},
	}
}

func forbiddenURLCmd(opts *options) *cobra.Command {
	var returnTo string
	cmd := &cobra.Command{
		Use:   "forbidden-url [role...]",
		Short: "Print the forbidden URL for the given roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.ForbiddenURL(args, returnTo))
			return nil
		},
	}
	cmd.Flags().StringVar(&returnTo, "return-to", "", "URL to return to after switching accounts")
	return cmd
}
