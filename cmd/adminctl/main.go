package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "adminctl",
		Short: "Operator tool for the coding assistant backend",
		Long: `adminctl manages the coding assistant database from the command line.

Examples:
  adminctl migrate
  adminctl grant-admin ops@example.com
  adminctl revoke-admin ops@example.com
  adminctl list-admins`,
		SilenceUsage: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(grantAdminCmd())
	root.AddCommand(revokeAdminCmd())
	root.AddCommand(listAdminsCmd())

	return root
}
