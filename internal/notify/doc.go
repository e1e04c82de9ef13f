// Package notify tells an operator which certificates were renewed and why.
//
// A Notifier renders the mail/renewed template and hands the message to a
// Sender. SMTPSender delivers through mailyak over implicit TLS or STARTTLS;
// LogSender is used when no SMTP host is configured. Notification is
// advisory, so callers log a NOTIFY_FAILURE and keep going.
package notify
