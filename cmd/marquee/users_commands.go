package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"marquee/internal/store"
)

func newUsersCommand(ctx *commandContext) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect and moderate bot users",
	}

	usersCmd.AddCommand(newUserInfoCommand(ctx))
	usersCmd.AddCommand(newUserModerationCommand(ctx, "ban", "Ban a user",
		"User %d banned\n", func(cmdCtx context.Context, s *store.Store, id int64) error {
			return s.SetBanned(cmdCtx, id, true)
		}))
	usersCmd.AddCommand(newUserModerationCommand(ctx, "unban", "Lift a user's ban",
		"User %d unbanned\n", func(cmdCtx context.Context, s *store.Store, id int64) error {
			return s.SetBanned(cmdCtx, id, false)
		}))
	usersCmd.AddCommand(newUserModerationCommand(ctx, "premium", "Grant premium limits",
		"User %d upgraded to premium\n", func(cmdCtx context.Context, s *store.Store, id int64) error {
			return s.SetPremium(cmdCtx, id, true)
		}))
	usersCmd.AddCommand(newUserModerationCommand(ctx, "revoke", "Revoke premium limits",
		"Premium revoked for user %d\n", func(cmdCtx context.Context, s *store.Store, id int64) error {
			return s.SetPremium(cmdCtx, id, false)
		}))

	return usersCmd
}

func newUserModerationCommand(ctx *commandContext, use, short, confirmation string, apply func(context.Context, *store.Store, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <user-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			users, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer users.Close()

			if user, err := users.GetUser(cmd.Context(), id); err != nil {
				return fmt.Errorf("load user: %w", err)
			} else if user == nil {
				return fmt.Errorf("no user with id %d", id)
			}

			if err := apply(cmd.Context(), users, id); err != nil {
				return fmt.Errorf("update user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), confirmation, id)
			return nil
		},
	}
}

func newUserInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <user-id>",
		Short: "Show a user's record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			users, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer users.Close()

			user, err := users.GetUser(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load user: %w", err)
			}
			if user == nil {
				return fmt.Errorf("no user with id %d", id)
			}

			posted, err := users.PostsToday(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("count posts: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"},
				[][]string{
					{"ID", fmt.Sprint(user.ID)},
					{"Username", orEmpty(user.Username)},
					{"Name", orEmpty(user.FirstName)},
					{"Banned", fmt.Sprint(user.Banned)},
					{"Premium", fmt.Sprint(user.Premium)},
					{"Watermark", orEmpty(user.Watermark)},
					{"Channel", orEmpty(user.Channel)},
					{"Posts today", fmt.Sprint(posted)},
					{"Posts total", fmt.Sprint(user.TotalPosts)},
					{"First seen", user.CreatedAt.Format(time.RFC3339)},
					{"Last seen", user.LastSeen.Format(time.RFC3339)},
				},
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func parseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return id, nil
}

func orEmpty(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
