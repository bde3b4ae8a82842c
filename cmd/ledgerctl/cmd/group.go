package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/groupledger/internal/models"
)

func newGroupCmd(a *app) *cobra.Command {
	group := &cobra.Command{
		Use:   "group",
		Short: "Create and inspect groups",
	}
	group.AddCommand(
		newGroupCreateCmd(a),
		newGroupShowCmd(a),
		newGroupListCmd(a),
		newGroupAddMembersCmd(a),
	)
	return group
}

func newGroupCreateCmd(a *app) *cobra.Command {
	var (
		name    string
		members []string
	)
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a group with an empty ledger",
		Example: `  ledgerctl group create --name Dinner --member a:Alice --member b:Bob`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := parseMembers(members)
			if err != nil {
				return err
			}
			g, err := a.groups.CreateGroup(cmd.Context(), name, ms)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created group %s (%s)\n", g.ID, g.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "group name (generated from members when empty)")
	cmd.Flags().StringArrayVar(&members, "member", nil, "member as id or id:name (repeatable)")
	return cmd
}

func newGroupShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <group-id>",
		Short: "Show a group and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.groups.GetGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Group:   %s\n", g.Name)
			fmt.Fprintf(out, "ID:      %s\n", g.ID)
			fmt.Fprintf(out, "Created: %s\n\n", time.Unix(g.CreatedAt, 0).Format(time.RFC3339))

			tw := newTable(out)
			row(tw, "MEMBER", "NAME")
			for _, m := range g.Members {
				row(tw, m.ID, m.Name)
			}
			return tw.Flush()
		},
	}
}

func newGroupListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := a.groups.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			row(tw, "ID", "NAME", "MEMBERS")
			for _, g := range groups {
				row(tw, g.ID, g.Name, strings.Join(g.MemberIDs(), ","))
			}
			return tw.Flush()
		},
	}
}

func newGroupAddMembersCmd(a *app) *cobra.Command {
	var members []string
	cmd := &cobra.Command{
		Use:   "add-members <group-id>",
		Short: "Add members to a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := parseMembers(members)
			if err != nil {
				return err
			}
			g, err := a.groups.AddMembers(cmd.Context(), args[0], ms)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Group %s now has %d members\n", g.ID, len(g.Members))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&members, "member", nil, "member as id or id:name (repeatable)")
	_ = cmd.MarkFlagRequired("member")
	return cmd
}

// parseMembers parses "id" or "id:name" values.
func parseMembers(values []string) ([]models.Member, error) {
	members := make([]models.Member, 0, len(values))
	for _, v := range values {
		id, name, _ := strings.Cut(v, ":")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("invalid member %q: id must not be empty", v)
		}
		members = append(members, models.Member{ID: id, Name: strings.TrimSpace(name)})
	}
	return members, nil
}
