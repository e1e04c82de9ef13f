// Package config loads the certkeeper daemon configuration.
//
// Configuration comes from three layers, later ones winning:
//
//  1. Built-in defaults (New)
//  2. A YAML or TOML file, chosen by extension (default
//     /etc/certkeeper/certkeeper.yaml, optional)
//  3. Environment variables, after loading ./.env if present
//
// Example certkeeper.yaml:
//
//	store_dir: /etc/letsencrypt
//	vhost_globs:
//	  - /etc/nginx/conf.d/*.conf
//	backend: docker
//	issuer_tag: certbot/certbot
//	proxy_tag: nginx:1.19-alpine
//	email: admin@example.com
//	staging: true
//	policy:
//	  expiry_threshold_days: 10
//	schedule:
//	  period: 24h
//	  ready_timeout: 5m
//	mail:
//	  host: email-smtp.us-east-1.amazonaws.com
//	  port: 465
//	  from: mailer@example.com
//	  to: ops@example.com
//	vhosts:
//	  - ssl_certificate: /etc/letsencrypt/live/api.example.com/fullchain.pem
//	    server_names: [api.example.com]
//
// # Environment
//
//	CERTKEEPER_STORE, CERTKEEPER_TARGET_STORE, CERTKEEPER_VHOSTS (comma list),
//	CERTKEEPER_BACKEND, CERTKEEPER_ISSUER_TAG, CERTKEEPER_PROXY_TAG,
//	CERTKEEPER_LOG_LEVEL, CERTKEEPER_PERIOD, EMAIL, STAGING,
//	SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, MAIL_FROM, MAIL_TO
//
// STAGING accepts booleans; any other non-empty value enables staging.
//
// When no vhost glob is configured anywhere, the platform package picks the
// globs for the nginx layouts found on the host.
package config
