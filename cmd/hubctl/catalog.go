package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/david/youth-hub/internal/ai"
	"github.com/david/youth-hub/internal/catalog"
	"github.com/david/youth-hub/internal/finder"
	"github.com/david/youth-hub/internal/i18n"
	"github.com/david/youth-hub/internal/models"
	"github.com/david/youth-hub/internal/session"
)

func criteriaFlags(cmd *cobra.Command, crit *models.Criteria) {
	f := cmd.Flags()
	f.StringVarP(&crit.Search, "search", "s", crit.Search, "case-insensitive text in title or organization")
	f.StringVar(&crit.Country, "country", crit.Country, `country, "International" or "Region: <name>"`)
	f.StringVar(&crit.Category, "sector", crit.Category, "opportunity category")
	f.StringVar(&crit.Education, "education", crit.Education, "education level")
	f.StringVar(&crit.Deadline, "deadline", crit.Deadline, "deadline window")
	f.StringVar(&crit.PostedWithin, "posted", crit.PostedWithin, "posting recency window")
	f.StringVar(&crit.SortBy, "sort", crit.SortBy, "sort mode")
}

func parseIDArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func (c *cli) listCmd() *cobra.Command {
	crit := models.DefaultCriteria()
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List opportunities matching the filters",
		Example: `  hubctl list --country Ghana --sort "Upcoming Deadline"
  hubctl list --country "Region: East Africa" --posted "All Time"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.renderListing(cmd, crit, nil)
			return nil
		},
	}
	criteriaFlags(cmd, &crit)
	return cmd
}

// renderListing prints the merged view for crit and the local picks for a
// concrete country.
func (c *cli) renderListing(cmd *cobra.Command, crit models.Criteria, recs []models.AIRecommendation) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	records := c.hub.Catalog.All()
	view := finder.Merge(recs, c.hub.Finder.Apply(records, crit), records, crit.SortBy)

	if len(view.Recommendations) > 0 {
		renderMatches(out, c.t(ctx, view.Heading, nil), view.Recommendations)
		fmt.Fprintln(out)
	}
	if len(view.Opportunities) == 0 {
		fmt.Fprintln(out, c.t(ctx, "noOpportunitiesFound", nil))
		fmt.Fprintln(out, c.t(ctx, "noOpportunitiesHint", nil))
	} else {
		renderOpportunities(out, c.t(ctx, view.BaselineHeading, nil), view.Opportunities)
	}

	if local := c.hub.Finder.Local(records, crit.Country); len(local) > 0 {
		fmt.Fprintln(out)
		renderOpportunities(out, c.t(ctx, "localOpportunitiesIn", map[string]string{"country": crit.Country}), local)
	}
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one opportunity in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			opp, err := c.hub.Catalog.Get(id)
			if err != nil {
				return err
			}
			renderDetail(cmd.OutOrStdout(), opp)
			return nil
		},
	}
}

func (c *cli) jobsCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Show the most recently posted jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs := c.hub.Finder.LatestJobs(c.hub.Catalog.All(), n)
			renderOpportunities(cmd.OutOrStdout(), c.t(cmd.Context(), "featuredJobs", nil), jobs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", 3, "number of jobs")
	return cmd
}

func (c *cli) optionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show the accepted filter values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderOptions(cmd.OutOrStdout(), c.hub.Geography.Options(), i18n.LanguageNames())
			return nil
		},
	}
}

func (c *cli) matchCmd() *cobra.Command {
	crit := models.DefaultCriteria()
	var profile string
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank opportunities against your bio with the AI matcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if profile == "" {
				if p, err := c.session().Profile(ctx); err == nil {
					profile = p.Bio
				}
			}
			recs, err := c.hub.Assistant.FindMatches(ctx, profile, c.hub.Catalog.All())
			switch err {
			case nil:
			case ai.ErrMissingProfile:
				return fmt.Errorf("%s", c.t(ctx, "errorMissingProfile", nil))
			default:
				return fmt.Errorf("%s", c.t(ctx, "errorMatchFailed", nil))
			}
			c.renderListing(cmd, crit, recs)
			return nil
		},
	}
	criteriaFlags(cmd, &crit)
	cmd.Flags().StringVar(&profile, "profile", "", "profile text to match instead of the stored bio")
	return cmd
}

func (c *cli) assistCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "assist <id>",
		Short: "Draft CV tips, a motivation letter outline or a proposal structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			m, err := ai.ParseMode(mode)
			if err != nil {
				return err
			}
			opp, err := c.hub.Catalog.Get(id)
			if err != nil {
				return err
			}
			var bio string
			if p, err := c.session().Profile(ctx); err == nil {
				bio = p.Bio
			}
			content, err := c.hub.Assistant.Draft(ctx, opp, bio, m)
			if err != nil {
				return fmt.Errorf("%s", c.t(ctx, "errorGenerateFailed", map[string]string{"mode": string(m)}))
			}
			fmt.Fprintln(cmd.OutOrStdout(), content)
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(ai.ModeCV), "CV, Letter or Proposal")
	return cmd
}

// draftFlags binds the admin form. Only flags the user set override the
// starting draft.
type draftFlags struct {
	d           catalog.Draft
	detailsFile string
}

func (df *draftFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&df.d.Title, "title", "", "title")
	f.StringVar(&df.d.Organization, "organization", "", "organization")
	f.StringVar(&df.d.Category, "category", "", "category")
	f.StringVar(&df.d.Description, "description", "", "description (may contain basic HTML)")
	f.StringVar(&df.d.Deadline, "deadline", "", `ISO date or "Open Enrollment"`)
	f.StringVar(&df.d.Country, "country", "", `country or "International"`)
	f.StringVar(&df.d.EducationLevel, "education", "", "education level")
	f.StringVar(&df.d.Link, "link", "", "application link")
	f.StringVar(&df.detailsFile, "details-file", "", "JSON file with the structured job details")
}

func (df *draftFlags) apply(cmd *cobra.Command, base catalog.Draft) (catalog.Draft, error) {
	f := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if f.Changed(name) {
			*dst = v
		}
	}
	set("title", &base.Title, df.d.Title)
	set("organization", &base.Organization, df.d.Organization)
	set("category", &base.Category, df.d.Category)
	set("description", &base.Description, df.d.Description)
	set("deadline", &base.Deadline, df.d.Deadline)
	set("country", &base.Country, df.d.Country)
	set("education", &base.EducationLevel, df.d.EducationLevel)
	set("link", &base.Link, df.d.Link)

	if df.detailsFile != "" {
		data, err := os.ReadFile(df.detailsFile)
		if err != nil {
			return base, fmt.Errorf("read details: %w", err)
		}
		base.Details = nil
		base.DetailsJSON = string(data)
	}
	return base, nil
}

func (c *cli) requireAdmin(cmd *cobra.Command) error {
	st, err := c.session().State(cmd.Context())
	if err != nil {
		return err
	}
	if st.Phase != session.Admin {
		return fmt.Errorf("admin sign-in required")
	}
	return nil
}

func (c *cli) adminCmd() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Create, edit and delete opportunities (admin sign-in required)",
	}

	var add draftFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an opportunity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireAdmin(cmd); err != nil {
				return err
			}
			d, err := add.apply(cmd, catalog.Draft{Deadline: models.OpenEnrollment, EducationLevel: "Any", Link: "#"})
			if err != nil {
				return err
			}
			opp, err := c.hub.Catalog.Create(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", c.t(cmd.Context(), "opportunityCreatedSuccess", nil), opp.ID)
			return nil
		},
	}
	add.bind(addCmd)

	var edit draftFlags
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an opportunity; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAdmin(cmd); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			cur, err := c.hub.Catalog.Get(id)
			if err != nil {
				return err
			}
			d, err := edit.apply(cmd, catalog.FromOpportunity(cur))
			if err != nil {
				return err
			}
			if _, err := c.hub.Catalog.Update(cmd.Context(), id, d); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.t(cmd.Context(), "opportunityUpdatedSuccess", nil))
			return nil
		},
	}
	edit.bind(editCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an opportunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAdmin(cmd); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if err := c.hub.Catalog.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.t(cmd.Context(), "opportunityDeletedSuccess", nil))
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the catalog with the shipped seed records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireAdmin(cmd); err != nil {
				return err
			}
			if err := c.hub.Catalog.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog reset to %d seed records\n", len(c.hub.Catalog.All()))
			return nil
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Count records per category and registered accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireAdmin(cmd); err != nil {
				return err
			}
			accounts, err := c.hub.Sessions.AccountCount(cmd.Context())
			if err != nil {
				return err
			}
			counts := map[models.Category]int{}
			records := c.hub.Catalog.All()
			for _, r := range records {
				counts[r.Category]++
			}
			stats := map[string]any{"records": len(records), "accounts": accounts, "byCategory": counts}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}

	admin.AddCommand(addCmd, editCmd, deleteCmd, resetCmd, statsCmd)
	return admin
}
