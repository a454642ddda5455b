package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t    *testing.T
	path string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("AI_PROVIDER", "mock")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("ADMIN_EMAIL", "admin@au.org")
	t.Setenv("ADMIN_PASSWORD", "admin123")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, os.WriteFile(os.Getenv("CONFIG_FILE"), []byte("log:\n  level: warn\n"), 0o644))
	return &harness{t: t, path: filepath.Join(t.TempDir(), "hub.db")}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	full := append([]string{"--storage", "sqlite", "--db", h.path}, args...)
	err := execute(context.Background(), full, &out, &out)
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func TestAccountFlow(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("signup", "alice@example.com", "secret")
	assert.Contains(t, out, "Tell us a little about yourself")

	out = h.mustRun("whoami")
	assert.Contains(t, out, "alice@example.com (user, profile_incomplete)")

	_, err := h.run("profile", "--bio", "no name yet")
	require.Error(t, err)
	assert.Equal(t, "Please enter your name to continue.", err.Error())

	out = h.mustRun("profile", "--name", "Alice", "--country", "Ghana", "--skills", "python, data ,")
	assert.Contains(t, out, "Welcome! Your profile is all set.")

	out = h.mustRun("whoami")
	assert.Contains(t, out, "profile_complete")
	assert.Contains(t, out, "python, data")

	h.mustRun("bio", "Software engineer interested in health tech")
	out = h.mustRun("profile")
	assert.Contains(t, out, "health tech")

	out = h.mustRun("logout")
	assert.Contains(t, out, "signed out")
	out = h.mustRun("whoami")
	assert.Contains(t, out, "not signed in")

	out = h.mustRun("login", "alice@example.com", "secret")
	assert.Contains(t, out, "Welcome to the Hub, Alice!")

	_, err = h.run("login", "bob@example.com", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No account found")

	_, err = h.run("signup", "alice@example.com", "other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestSocialLogin(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("social")
	assert.Contains(t, out, "Tell us a little about yourself")
	out = h.mustRun("whoami")
	assert.Contains(t, out, "social-user@example.com")
	assert.Contains(t, out, "Social User")
}

func TestCatalogCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("show", "17")
	assert.Contains(t, out, "AVoHC Rapid Responder")
	assert.Contains(t, out, "Africa CDC")

	_, err := h.run("show", "999")
	assert.Error(t, err)
	_, err = h.run("show", "abc")
	assert.Error(t, err)

	out = h.mustRun("jobs")
	assert.Contains(t, out, "Featured Jobs")
	assert.Contains(t, out, "AVoHC Rapid Responder")

	out = h.mustRun("options")
	assert.Contains(t, out, "Scholarships")
	assert.Contains(t, out, "Upcoming Deadline")
}

func TestAdminCommands(t *testing.T) {
	h := newHarness(t)
	deadline := time.Now().AddDate(0, 2, 0).Format("2006-01-02")

	h.mustRun("signup", "alice@example.com", "secret")
	_, err := h.run("admin", "add", "--title", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin sign-in required")
	h.mustRun("logout")

	h.mustRun("login", "admin@au.org", "admin123")

	_, err = h.run("admin", "add", "--title", "Bad", "--category", "Loans")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")

	out := h.mustRun("admin", "add",
		"--title", "Kigali Youth Coding Bootcamp",
		"--organization", "Rwanda ICT Chamber",
		"--category", "Training",
		"--description", "<p>Twelve weeks of <b>full-stack</b> training.</p><script>alert(1)</script>",
		"--deadline", deadline,
		"--country", "Rwanda",
	)
	assert.Contains(t, out, "Opportunity created successfully!")

	out = h.mustRun("list", "--search", "kigali youth")
	assert.Contains(t, out, "Kigali Youth Coding Bootcamp")
	assert.Contains(t, out, "Latest Opportunities")

	out = h.mustRun("list", "--country", "Rwanda", "--sort", "Upcoming Deadline")
	assert.Contains(t, out, "Opportunities by Deadline")
	assert.Contains(t, out, "Latest opportunities in Rwanda")

	out = h.mustRun("list", "--search", "no such thing anywhere")
	assert.Contains(t, out, "No opportunities found")

	out = h.mustRun("admin", "edit", "17", "--organization", "Africa CDC (AVoHC)")
	assert.Contains(t, out, "Opportunity updated successfully!")
	out = h.mustRun("show", "17")
	assert.Contains(t, out, "Africa CDC (AVoHC)")
	assert.Contains(t, out, "AVoHC Rapid Responder")

	out = h.mustRun("admin", "delete", "17")
	assert.Contains(t, out, "Opportunity deleted successfully!")
	_, err = h.run("show", "17")
	assert.Error(t, err)

	out = h.mustRun("admin", "stats")
	assert.Contains(t, out, `"accounts": 1`)

	out = h.mustRun("admin", "reset")
	assert.Contains(t, out, "catalog reset")
	h.mustRun("show", "17")
}

func TestAssistCommands(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("match")
	require.Error(t, err)
	assert.Equal(t, "Please enter your profile information first.", err.Error())

	out := h.mustRun("match", "--profile", "Nursing graduate from Kenya")
	assert.Contains(t, out, "Your Top AI Matches")
	assert.Contains(t, out, "This mock match")

	out = h.mustRun("assist", "17", "--mode", "Letter")
	assert.Contains(t, out, "mock generated content")

	_, err = h.run("assist", "17", "--mode", "Poem")
	assert.Error(t, err)
}

func TestLanguage(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "English\n", h.mustRun("lang"))

	out := h.mustRun("lang", "Français")
	assert.Contains(t, out, "Langue changée en Français")

	out = h.mustRun("match", "--profile", "anything")
	assert.Contains(t, out, "Vos meilleures correspondances IA")

	_, err := h.run("lang", "Klingon")
	assert.Error(t, err)
}
