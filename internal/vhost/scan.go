package vhost

import "regexp"

// Declaration is one virtual-host block as seen by the scanner.
type Declaration struct {
	Source      string   // file and line, or "config"
	CertPath    string   // ssl_certificate argument, empty when absent
	ServerNames []string // server_name arguments
}

// Requirement is the set of domains a certificate name must cover.
type Requirement struct {
	Name    string   `json:"name"`
	Domains []string `json:"domains"`
}

// certNamePattern captures everything between "live/" and the last "/".
var certNamePattern = regexp.MustCompile(`live/(.*)/`)

// CertName extracts the certificate name from a certificate path.
func CertName(certPath string) (string, bool) {
	m := certNamePattern.FindStringSubmatch(certPath)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// Scan builds one Requirement per distinct certificate name, in order of
// first appearance. Domains are deduplicated and keep first-seen order.
func Scan(decls []Declaration) []Requirement {
	var reqs []Requirement
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)

	for _, d := range decls {
		if d.CertPath == "" {
			continue
		}
		name, ok := CertName(d.CertPath)
		if !ok {
			continue
		}

		i, exists := index[name]
		if !exists {
			i = len(reqs)
			index[name] = i
			reqs = append(reqs, Requirement{Name: name, Domains: []string{}})
			seen[name] = make(map[string]bool)
		}

		for _, domain := range d.ServerNames {
			if domain == "" || seen[name][domain] {
				continue
			}
			seen[name][domain] = true
			reqs[i].Domains = append(reqs[i].Domains, domain)
		}
	}

	return reqs
}
