package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/david/youth-hub/internal/session"
)

func (c *cli) greet(cmd *cobra.Command, st session.State) {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	switch {
	case st.Phase == session.Admin:
		fmt.Fprintf(out, "Signed in as administrator %s\n", st.Email)
	case st.NeedsSetup():
		fmt.Fprintln(out, c.t(ctx, "profileSetupPrompt", nil))
		fmt.Fprintln(out, `Run: hubctl profile --name "Your Name" --bio "..."`)
	default:
		fmt.Fprintln(out, c.t(ctx, "welcomeToTheHub", map[string]string{"name": st.Profile.Name}))
	}
}

func (c *cli) signupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup <email> <password>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.session().Register(cmd.Context(), args[0], args[1])
			if err != nil {
				return userError(err)
			}
			c.greet(cmd, st)
			return nil
		},
	}
}

func (c *cli) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.session().Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return userError(err)
			}
			c.greet(cmd, st)
			return nil
		},
	}
}

func (c *cli) socialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "social",
		Short: "Sign in with the shared social account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.session().SocialLogin(cmd.Context())
			if err != nil {
				return userError(err)
			}
			c.greet(cmd, st)
			return nil
		},
	}
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out; accounts and profiles are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg := c.t(cmd.Context(), "signedOut", nil)
			if err := c.session().Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.session().State(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !st.LoggedIn() {
				fmt.Fprintln(out, "not signed in")
				return nil
			}
			fmt.Fprintf(out, "%s (%s, %s)\n", st.Email, st.Role, st.Phase)
			if st.Profile != nil {
				renderProfile(out, *st.Profile)
			}
			return nil
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var profileFields = []string{"name", "bio", "country", "education", "skills", "interests"}

func (c *cli) profileCmd() *cobra.Command {
	var (
		name, bio, country, education string
		skills, interests             string
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile; the first edit completes setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess := c.session()
			st, err := sess.State(ctx)
			if err != nil {
				return err
			}
			p, err := sess.Profile(ctx)
			if err != nil {
				return userError(err)
			}
			f := cmd.Flags()
			edited := false
			for _, name := range profileFields {
				edited = edited || f.Changed(name)
			}
			if !edited {
				renderProfile(cmd.OutOrStdout(), p)
				return nil
			}

			if f.Changed("name") {
				p.Name = name
			}
			if f.Changed("bio") {
				p.Bio = bio
			}
			if f.Changed("country") {
				p.Country = country
			}
			if f.Changed("education") {
				p.EducationLevel = education
			}
			if f.Changed("skills") {
				p.Skills = splitList(skills)
			}
			if f.Changed("interests") {
				p.Interests = splitList(interests)
			}

			if st.NeedsSetup() {
				if _, err := sess.CompleteSetup(ctx, p); err != nil {
					if err == session.ErrNameRequired {
						return fmt.Errorf("%s", c.t(ctx, "errorEnterName", nil))
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.t(ctx, "profileSetupSuccess", nil))
				return nil
			}
			if _, err := sess.SaveProfile(ctx, p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.t(ctx, "profileUpdatedSuccess", nil))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "display name")
	f.StringVar(&bio, "bio", "", "free-text bio used for AI matching")
	f.StringVar(&country, "country", "", "country")
	f.StringVar(&education, "education", "", "education level")
	f.StringVar(&skills, "skills", "", "comma-separated skills")
	f.StringVar(&interests, "interests", "", "comma-separated interests")
	return cmd
}

func (c *cli) bioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bio <text>",
		Short: "Replace your bio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.session().UpdateBio(cmd.Context(), args[0]); err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.t(cmd.Context(), "profileUpdatedSuccess", nil))
			return nil
		},
	}
}

func (c *cli) langCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lang [language]",
		Short: "Show or set the display language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), c.language(ctx))
				return nil
			}
			if err := c.session().SetLanguage(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.t(ctx, "languageSwitched", map[string]string{"language": args[0]}))
			return nil
		},
	}
}
