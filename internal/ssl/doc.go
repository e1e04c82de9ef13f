// Package ssl issues certificates by running certbot and openssl inside the
// issuer execution target.
//
// Two operations, used for different verdicts:
//
//   - Bootstrap writes a short-lived self-signed placeholder so the proxy
//     can load its TLS config before any real certificate exists:
//
//     openssl req -x509 -nodes -newkey rsa:1024 -days 1 \
//     -keyout <root>/live/<name>/privkey.pem \
//     -out <root>/live/<name>/fullchain.pem -subj /CN=localhost
//
//   - Renew deletes live/<name>, archive/<name> and renewal/<name>.conf,
//     then requests a fresh certificate:
//
//     certbot certonly --non-interactive --break-my-certs --webroot -w <webroot> \
//     -d <name> -d <other>... --email <email> --rsa-key-size 4096 \
//     --agree-tos --force-renewal [--staging]
//
// Paths inside commands use the target's view of the store (Options.TargetRoot),
// which differs from the daemon's when the store is a shared docker volume
// mounted at different places.
//
// # Testing
//
//	loc := executor.NewMockLocator("certbot/certbot")
//	iss := ssl.NewIssuer(ssl.Options{Locator: loc, Tag: "certbot/certbot", Store: store})
//	_, err := iss.Renew(ctx, "example.com", domains)
//	runs := loc.Targets["certbot/certbot"].Runs
//
// # Error Handling
//
// A failing command returns an EXECUTION_FAILURE error whose Output field
// holds certbot's combined output. Common causes:
//   - Rate limiting: use staging while testing
//   - Webroot not served on port 80 for /.well-known/acme-challenge/
//   - DNS not configured: ensure domain points to server
package ssl
