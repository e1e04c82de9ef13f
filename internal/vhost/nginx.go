package vhost

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	crossplane "github.com/nginxinc/nginx-go-crossplane"
)

// parseOptions reads one file without following include directives. Conf
// files are usually included from the http context, so context checks are
// skipped; argument and terminator checks stay on.
func parseOptions(open func(string) (io.ReadCloser, error)) *crossplane.ParseOptions {
	return &crossplane.ParseOptions{
		Open:                      open,
		SingleFile:                true,
		StopParsingOnError:        true,
		SkipDirectiveContextCheck: true,
	}
}

// ParseNginx reads nginx configuration from r and returns one Declaration
// per server block, at any nesting depth. source labels the declarations.
func ParseNginx(r io.Reader, source string) ([]Declaration, error) {
	open := func(string) (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	}
	return parse(source, open)
}

// ParseNginxFile parses a single nginx conf file.
func ParseNginxFile(path string) ([]Declaration, error) {
	open := func(p string) (io.ReadCloser, error) {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		return f, nil
	}
	return parse(path, open)
}

func parse(source string, open func(string) (io.ReadCloser, error)) ([]Declaration, error) {
	payload, err := crossplane.Parse(source, parseOptions(open))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	var decls []Declaration
	for _, cfg := range payload.Config {
		collectServers(cfg.Parsed, source, &decls)
	}
	return decls, nil
}

// collectServers appends a Declaration for every server block in dirs.
// A server directive without a block (an upstream member) is not a vhost.
func collectServers(dirs crossplane.Directives, source string, out *[]Declaration) {
	for _, d := range dirs {
		if d.Directive == "server" && d.Block != nil {
			decl := Declaration{Source: fmt.Sprintf("%s:%d", source, d.Line)}
			for _, c := range d.Block {
				switch c.Directive {
				case "ssl_certificate":
					if decl.CertPath == "" && len(c.Args) > 0 {
						decl.CertPath = c.Args[0]
					}
				case "server_name":
					decl.ServerNames = append(decl.ServerNames, c.Args...)
				}
			}
			*out = append(*out, decl)
			continue
		}
		collectServers(d.Block, source, out)
	}
}

// NginxSource reads declarations from every file matching its globs.
type NginxSource struct {
	Globs []string
}

// Declarations parses all matching files in sorted path order.
func (s *NginxSource) Declarations() ([]Declaration, error) {
	var files []string
	seen := make(map[string]bool)
	for _, g := range s.Globs {
		matches, err := filepath.Glob(g)
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", g, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if seen[m] {
				continue
			}
			if info, err := os.Stat(m); err != nil || info.IsDir() {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}

	var decls []Declaration
	for _, f := range files {
		d, err := ParseNginxFile(f)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d...)
	}
	return decls, nil
}
