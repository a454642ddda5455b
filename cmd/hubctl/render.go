package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/david/youth-hub/internal/ai"
	"github.com/david/youth-hub/internal/catalog"
	"github.com/david/youth-hub/internal/finder"
	"github.com/david/youth-hub/internal/models"
)

func renderOpportunities(w io.Writer, heading string, list []models.Opportunity) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(heading)
	t.AppendHeader(table.Row{"ID", "Title", "Organization", "Category", "Country", "Deadline", "Posted"})
	for _, o := range list {
		t.AppendRow(table.Row{o.ID, o.Title, o.Organization, o.Category, o.Country, o.Deadline, o.PostedDate})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "Total", len(list)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 48},
		{Name: "Organization", WidthMax: 28},
	})
	t.Render()
}

func renderMatches(w io.Writer, heading string, matches []finder.Match) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(heading)
	t.AppendHeader(table.Row{"ID", "Title", "Why"})
	for _, m := range matches {
		t.AppendRow(table.Row{m.ID, m.Title, m.Rationale})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 40},
		{Name: "Why", WidthMax: 60},
	})
	t.Render()
}

func renderDetail(w io.Writer, o models.Opportunity) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(o.Title)
	t.AppendRows([]table.Row{
		{"ID", o.ID},
		{"Organization", o.Organization},
		{"Category", o.Category},
		{"Country", o.Country},
		{"Education", o.EducationLevel},
		{"Deadline", o.Deadline},
		{"Posted", o.PostedDate},
		{"Link", o.Link},
	})
	t.Render()

	fmt.Fprintln(w)
	fmt.Fprintln(w, text.WrapSoft(ai.HTMLToText(o.Description), 80))

	d := o.Details
	if d.IsEmpty() {
		return
	}
	section := func(title string, body ...string) {
		if len(body) == 0 || (len(body) == 1 && body[0] == "") {
			return
		}
		fmt.Fprintf(w, "\n%s\n", text.Bold.Sprint(title))
		for _, line := range body {
			fmt.Fprintln(w, text.WrapSoft(line, 80))
		}
	}
	bullets := func(items []string) []string {
		out := make([]string, len(items))
		for i, s := range items {
			out[i] = "  - " + s
		}
		return out
	}
	section("Purpose", d.Purpose)
	section("Main functions", bullets(d.MainFunctions)...)
	section("Specific responsibilities", bullets(d.SpecificResponsibilities)...)
	section("Academic requirements", d.AcademicRequirements)
	if d.RequiredSkills != nil {
		section("Functional skills", bullets(d.RequiredSkills.Functional)...)
		section("Personal skills", bullets(d.RequiredSkills.Personal)...)
	}
	section("Note", d.MandatoryNote)
}

func renderProfile(w io.Writer, p models.UserProfile) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Profile")
	t.AppendRows([]table.Row{
		{"Name", p.Name},
		{"Email", p.Email},
		{"Country", p.Country},
		{"Education", p.EducationLevel},
		{"Skills", strings.Join(p.Skills, ", ")},
		{"Interests", strings.Join(p.Interests, ", ")},
		{"Bio", text.WrapSoft(p.Bio, 60)},
	})
	t.Render()
}

func renderOptions(w io.Writer, opts catalog.Options, languages []string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Selector", "Values"})
	t.AppendRows([]table.Row{
		{"--country", text.WrapSoft(strings.Join(opts.Countries, ", "), 80)},
		{"--sector", strings.Join(opts.Categories, ", ")},
		{"--education", strings.Join(opts.EducationLevels, ", ")},
		{"--deadline", strings.Join(opts.Deadlines, ", ")},
		{"--posted", strings.Join(opts.PostedWithin, ", ")},
		{"--sort", strings.Join(opts.SortModes, ", ")},
		{"lang", strings.Join(languages, ", ")},
	})
	t.Render()
}
