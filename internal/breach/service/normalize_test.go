package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	breachDomain "github.com/allisson/passvault/internal/breach/domain"
)

func TestNormalizeServiceName(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{title: "GitHub", expected: "Github"},
		{title: "github.com", expected: "Github"},
		{title: "  LinkedIn Login ", expected: "Linkedin"},
		{title: "adobe.com account", expected: "Adobe"},
		{title: "bbc.co.uk", expected: "Bbc"},
		{title: "Dropbox password auth", expected: "Dropbox"},
		{title: "My Bank Authentication", expected: "My bank"},
		{title: "Password", expected: ""},
		{title: "   ", expected: ""},
		{title: "telecom", expected: "Telecom"},
		{title: "ébay", expected: "Ébay"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeServiceName(tt.title))
		})
	}
}

func TestMatchBreaches(t *testing.T) {
	corpus := []breachDomain.Breach{
		{Name: "Adobe", Domain: "adobe.com", BreachDate: time.Date(2013, 10, 4, 0, 0, 0, 0, time.UTC)},
		{Name: "LinkedIn", Domain: "linkedin.com"},
		{Name: "Collection1", Domain: ""},
		{Name: "GitHubGist", Domain: "gist.github.com"},
	}

	t.Run("Name match is case insensitive", func(t *testing.T) {
		matches := MatchBreaches("Linkedin", corpus)
		assert.Len(t, matches, 1)
		assert.Equal(t, "LinkedIn", matches[0].Name)
	})

	t.Run("Domain substring match", func(t *testing.T) {
		matches := MatchBreaches("Github", corpus)
		assert.Len(t, matches, 1)
		assert.Equal(t, "GitHubGist", matches[0].Name)
	})

	t.Run("No match", func(t *testing.T) {
		assert.Empty(t, MatchBreaches("Netflix", corpus))
	})

	t.Run("Empty service never matches", func(t *testing.T) {
		assert.Empty(t, MatchBreaches("", corpus))
	})
}

func TestNormalizeSeverity(t *testing.T) {
	tests := []struct {
		name     string
		classes  []string
		expected breachDomain.Severity
	}{
		{name: "Passwords are critical", classes: []string{"Email addresses", "Passwords"}, expected: breachDomain.SeverityCritical},
		{name: "Credit cards are critical", classes: []string{"Credit cards"}, expected: breachDomain.SeverityCritical},
		{name: "Emails are high", classes: []string{"Email addresses", "Usernames"}, expected: breachDomain.SeverityHigh},
		{name: "Password hints are high", classes: []string{"Password hints"}, expected: breachDomain.SeverityHigh},
		{
			name:     "Many categories are medium",
			classes:  []string{"Names", "Usernames", "Genders", "Dates of birth"},
			expected: breachDomain.SeverityMedium,
		},
		{name: "Few categories are low", classes: []string{"Usernames", "IP addresses"}, expected: breachDomain.SeverityLow},
		{name: "No categories are low", classes: nil, expected: breachDomain.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSeverity(tt.classes))
		})
	}
}
