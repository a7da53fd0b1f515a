// Package notification delivers operator notices, such as a signup that
// could not be linked to its invite group.
//
// A Manager renders a Notice from its registered template and hands it to
// every registered Notifier. LogNotifier writes through slog and
// EmailNotifier sends through an SMTP server with go-mail.
package notification
