// Package vhost turns virtual-host declarations into certificate requirements.
//
// A Declaration is one server block: the path given to ssl_certificate (if
// any) and its server names. Declarations come from a Source: nginx conf
// files matched by glob, or static entries from the config file.
//
// Scan groups declarations by certificate name, the path segment after
// "live/" in the certificate path:
//
//	/etc/letsencrypt/live/example.com/fullchain.pem  ->  example.com
//
// and merges the server names of every block that references the same name.
// Blocks without ssl_certificate, or whose path has no live/ segment, are
// ignored.
//
// Conf files are parsed one at a time with nginx-go-crossplane; include
// directives are not followed.
package vhost
