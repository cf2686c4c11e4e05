// Package service holds the breach matching rules and the breach provider client.
package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	breachDomain "github.com/allisson/passvault/internal/breach/domain"
)

var domainSuffixes = []string{".com", ".net", ".org", ".io", ".co", ".uk"}

var authWords = map[string]struct{}{
	"login":          {},
	"account":        {},
	"password":       {},
	"auth":           {},
	"authentication": {},
}

var criticalDataClasses = map[string]struct{}{
	"passwords":                {},
	"credit cards":             {},
	"credit card cvv":          {},
	"partial credit card data": {},
	"bank account numbers":     {},
	"banking pins":             {},
	"banking":                  {},
	"social security numbers":  {},
	"ssns":                     {},
}

var highDataClasses = map[string]struct{}{
	"email addresses":                {},
	"emails":                         {},
	"password hints":                 {},
	"security questions and answers": {},
	"security questions":             {},
}

// NormalizeServiceName turns a credential title into the service name used for
// breach matching: lowercased, without known domain suffixes or trailing auth words,
// first letter capitalized. Returns "" when nothing is left.
func NormalizeServiceName(title string) string {
	name := strings.TrimSpace(strings.ToLower(title))

	for {
		before := name
		for _, suffix := range domainSuffixes {
			name = strings.TrimSuffix(name, suffix)
		}
		if fields := strings.Fields(name); len(fields) > 0 {
			if _, ok := authWords[fields[len(fields)-1]]; ok {
				name = strings.Join(fields[:len(fields)-1], " ")
			}
		}
		name = strings.TrimSpace(name)
		if name == before {
			break
		}
	}

	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// MatchBreaches returns the breaches whose name equals service case-insensitively or
// whose domain contains it.
func MatchBreaches(service string, breaches []breachDomain.Breach) []breachDomain.Breach {
	if service == "" {
		return nil
	}
	needle := strings.ToLower(service)

	var matches []breachDomain.Breach
	for _, breach := range breaches {
		if strings.EqualFold(breach.Name, service) ||
			(breach.Domain != "" && strings.Contains(strings.ToLower(breach.Domain), needle)) {
			matches = append(matches, breach)
		}
	}
	return matches
}

// NormalizeSeverity derives a severity from the leaked data classes.
func NormalizeSeverity(dataClasses []string) breachDomain.Severity {
	high := false
	for _, class := range dataClasses {
		key := strings.ToLower(strings.TrimSpace(class))
		if _, ok := criticalDataClasses[key]; ok {
			return breachDomain.SeverityCritical
		}
		if _, ok := highDataClasses[key]; ok {
			high = true
		}
	}

	switch {
	case high:
		return breachDomain.SeverityHigh
	case len(dataClasses) > 3:
		return breachDomain.SeverityMedium
	default:
		return breachDomain.SeverityLow
	}
}
