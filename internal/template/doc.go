// Package template renders notification bodies from embedded Go templates.
//
// Templates live under mail/ and are embedded with go:embed:
//
//	mail/renewed.tmpl
//
// # Rendering
//
//	body, err := template.Render(template.Renewed, actions)
//
// The renewed template ranges over a slice of values with Domains and
// Reasons string slices and produces one block per entry:
//
//	Domains: example.com, www.example.com
//	Reasons:
//	 - Less than 10 days before certificate expiry.
//
// # Custom Functions
//
//   - join: strings.Join
package template
