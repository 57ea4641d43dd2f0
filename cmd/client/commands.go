package main

import (
	"chat-client/auth"
	"chat-client/domain"
	"chat-client/errors"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newRootCmd(app *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chat",
		Short:         "Terminal client for the chat server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newChannelsCmd(app),
		newJoinCmd(app),
	)

	return rootCmd
}

func newLoginCmd(app *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the token for the next runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.auth.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			return printSession(cmd.OutOrStdout(), session)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newRegisterCmd(app *app) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in with it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.auth.Register(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			return printSession(cmd.OutOrStdout(), session)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password, at least 6 characters")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.auth.Logout(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := restore(cmd, app)
			if err != nil {
				return err
			}
			return printSession(cmd.OutOrStdout(), session)
		},
	}
}

func newChannelsCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List the channels of the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chat := app.newChatSession(cmd.InOrStdin(), cmd.OutOrStdout())
			channels, err := chat.service.Channels(cmd.Context())
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout())
			table.SetHeader([]string{"#", "Channel"})
			for i, channel := range channels {
				table.Append([]string{fmt.Sprint(i + 1), channel})
			}
			table.Render()
			return nil
		},
	}
}

func newJoinCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "join <channel>",
		Short: "Join a channel and chat until /leave or Ctrl+C",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := restore(cmd, app)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			chat := app.newChatSession(cmd.InOrStdin(), out)
			_, _ = fmt.Fprintln(out, color.New(color.BgBlack, color.FgGreen).Render(
				fmt.Sprintf(" %s in #%s, /help for commands ", session.User.Username, args[0])))

			if err := chat.service.Join(cmd.Context(), session, args[0]); err != nil {
				return err
			}

			view := chat.mirror.Snapshot()
			messages := lo.CountBy(view.Entries, func(e domain.ChatEntry) bool { return e.Kind == domain.MESSAGE })
			_, err = fmt.Fprintf(out, "Left #%s after %d messages, %d connection failures\n", args[0], messages, chat.mirror.Failures())
			return err
		},
	}
}

// restore returns the stored session or explains how to get one
func restore(cmd *cobra.Command, app *app) (*auth.Session, error) {
	session, err := app.auth.Restore(cmd.Context())
	if stderrors.Is(err, errors.ErrNoStoredToken) || stderrors.Is(err, errors.ErrNotAuthenticated) {
		return nil, fmt.Errorf("%w, run %s login first", err, cmd.Root().Name())
	}
	return session, err
}

func printSession(out io.Writer, session *auth.Session) error {
	expires := "never"
	if !session.ExpiresAt.IsZero() {
		expires = session.ExpiresAt.Local().Format(time.DateTime)
	}
	table := newTable(out)
	table.SetHeader([]string{"Username", "Email", "ID", "Expires"})
	table.Append([]string{session.User.Username, session.User.Email, session.User.ID.String(), expires})
	table.Render()
	return nil
}

func newTable(out io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
