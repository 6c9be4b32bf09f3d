// AngelaMos | 2026
// profile.go

package user

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type fieldCheck struct {
	name    string
	present func(u *User) bool
}

func nonBlank(get func(u *User) string) func(u *User) bool {
	return func(u *User) bool { return strings.TrimSpace(get(u)) != "" }
}

func nonEmpty(get func(u *User) []string) func(u *User) bool {
	return func(u *User) bool { return len(get(u)) > 0 }
}

// profileRequirements lists the fields a role must fill in before the
// profile counts as complete. Roles without an entry are never complete.
var profileRequirements = map[string][]fieldCheck{
	RoleDeveloper: {
		{"bio", nonBlank(func(u *User) string { return u.Bio })},
		{"location", nonBlank(func(u *User) string { return u.Location })},
		{"skills", nonEmpty(func(u *User) []string { return u.Skills })},
		{"experienceLevel", nonBlank(func(u *User) string { return u.ExperienceLevel })},
		{"yearsOfExperience", func(u *User) bool { return u.YearsOfExperience != nil }},
		{"currentCompany", nonBlank(func(u *User) string { return u.CurrentCompany })},
		{"currentPosition", nonBlank(func(u *User) string { return u.CurrentPosition })},
		{"education", nonEmpty(func(u *User) []string { return u.Education })},
		{"certifications", nonEmpty(func(u *User) []string { return u.Certifications })},
	},
	RoleRecruiter: {
		{"company", nonBlank(func(u *User) string { return u.Company })},
		{"industry", nonBlank(func(u *User) string { return u.Industry })},
		{"jobTitle", nonBlank(func(u *User) string { return u.JobTitle })},
		{"phone", nonBlank(func(u *User) string { return u.Phone })},
		{"linkedin", nonBlank(func(u *User) string { return u.LinkedIn })},
	},
}

func MissingProfileFields(u *User) []string {
	checks, ok := profileRequirements[u.Role]
	if !ok {
		return nil
	}

	var missing []string
	for _, c := range checks {
		if !c.present(u) {
			missing = append(missing, c.name)
		}
	}
	return missing
}

func ComputeProfileComplete(u *User) bool {
	if _, ok := profileRequirements[u.Role]; !ok {
		return false
	}
	return len(MissingProfileFields(u)) == 0
}

// ProfileCompletion returns the percentage of required fields filled in,
// rounded down.
func ProfileCompletion(u *User) int {
	checks, ok := profileRequirements[u.Role]
	if !ok || len(checks) == 0 {
		return 0
	}

	filled := len(checks) - len(MissingProfileFields(u))
	return filled * 100 / len(checks)
}

// baseSlug builds first-last-<unix> from a display name. Accents are folded
// and anything outside ASCII letters and digits becomes a dash.
func baseSlug(firstName, lastName string, now time.Time) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{firstName, lastName} {
		if s := slugify(p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "user")
	}
	parts = append(parts, fmt.Sprintf("%d", now.Unix()))
	return strings.Join(parts, "-")
}

func slugify(s string) string {
	// transform chains carry state, so each call builds its own.
	stripMarks := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func withRandomSuffix(slug string) string {
	buf := make([]byte, 3)
	//nolint:errcheck // crypto/rand.Read never fails on supported platforms
	_, _ = rand.Read(buf)
	return slug + "-" + hex.EncodeToString(buf)
}
