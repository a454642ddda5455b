package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	tests := []struct {
		name, language, key string
		repl                map[string]string
		want                string
	}{
		{"english", "English", "latestOpportunities", nil, "Latest Opportunities"},
		{"french by name", "Français", "latestOpportunities", nil, "Dernières opportunités"},
		{"french by code", "fr", "latestOpportunities", nil, "Dernières opportunités"},
		{"missing in french falls back", "Français", "noOpportunitiesHint", nil, "Try adjusting your filters or search terms."},
		{"no locale file", "Português", "latestOpportunities", nil, "Latest Opportunities"},
		{"unknown language", "Klingon", "latestOpportunities", nil, "Latest Opportunities"},
		{"unknown key", "English", "doesNotExist", nil, "doesNotExist"},
		{"placeholder", "Kiswahili", "languageSwitched", map[string]string{"language": "Kiswahili"}, "Lugha imebadilishwa kuwa Kiswahili"},
		{"placeholder fallback", "Português", "localOpportunitiesIn", map[string]string{"country": "Ghana"}, "Latest opportunities in Ghana"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tr.T(tc.language, tc.key, tc.repl))
		})
	}
}

func TestLanguages(t *testing.T) {
	assert.True(t, IsLanguage("Kiswahili"))
	assert.False(t, IsLanguage("sw"))
	assert.Equal(t, []string{"English", "Français", "Kiswahili", "Português", "العربية"}, LanguageNames())
}
