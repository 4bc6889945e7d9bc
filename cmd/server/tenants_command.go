package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jrsteele09/connect-onboarding/internal/config"
	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
	"github.com/jrsteele09/connect-onboarding/tenants"
	"github.com/jrsteele09/connect-onboarding/tenants/boltrepo"
	"github.com/spf13/cobra"
)

// newTenantsCommand manages tenant records in the local store. The server holds
// the store's file lock, so these commands only work while it is stopped.
func newTenantsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "Manage tenant records",
	}
	cmd.AddCommand(newTenantsPutCommand(), newTenantsGetCommand(), newTenantsListCommand())
	return cmd
}

func withTenantRepo(fn func(repo *boltrepo.Repo) error) error {
	repo, err := boltrepo.Open(config.New().GetDataFile())
	if err != nil {
		return err
	}
	defer repo.Close()
	return fn(repo)
}

func newTenantsPutCommand() *cobra.Command {
	var name string
	var projects []string

	cmd := &cobra.Command{
		Use:   "put <tenant-id>",
		Short: "Create or update a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTenantRepo(func(repo *boltrepo.Repo) error {
				ctx := cmd.Context()
				tenant, err := repo.Get(ctx, args[0])
				switch {
				case apperrors.Is(err, apperrors.ErrTenantNotFound):
					tenant = &tenants.Tenant{ID: args[0]}
				case err != nil:
					return err
				}
				if cmd.Flags().Changed("name") {
					tenant.Name = name
				}
				for _, p := range projects {
					p = strings.TrimSpace(p)
					if p == "" {
						continue
					}
					if tenant.ProjectList == nil {
						tenant.ProjectList = map[string]tenants.Project{}
					}
					if _, ok := tenant.ProjectList[p]; !ok {
						tenant.ProjectList[p] = tenants.Project{}
					}
				}
				if err := repo.Upsert(ctx, tenant); err != nil {
					return err
				}
				stored, err := repo.Get(ctx, tenant.ID)
				if err != nil {
					return err
				}
				return printJSON(cmd, stored)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringSliceVar(&projects, "project", nil, "Project name to add (repeatable)")
	return cmd
}

func newTenantsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <tenant-id>",
		Short: "Show a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTenantRepo(func(repo *boltrepo.Repo) error {
				tenant, err := repo.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, tenant)
			})
		},
	}
}

func newTenantsListCommand() *cobra.Command {
	var offset, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTenantRepo(func(repo *boltrepo.Repo) error {
				list, err := repo.List(cmd.Context(), offset, limit)
				if err != nil {
					return err
				}
				for _, t := range list {
					account := t.StripeAccountID
					if account == "" {
						account = "-"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", t.ID, account, t.Name)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum records to list")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
