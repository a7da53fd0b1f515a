package notification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"text/template"
)

// NoticeTemplate renders a notice's subject and body from its data
type NoticeTemplate struct {
	Subject string
	Text    string
}

// DefaultTemplates are registered by NewManager
var DefaultTemplates = map[NoticeType]NoticeTemplate{
	NoticeGroupLinkFailed: {
		Subject: "Signup could not join group",
		Text: "Account {{.account_id}} signed up with invite {{.token_id}} " +
			"but could not be added to group {{.group_id}}: {{.error}}\n",
	},
	NoticeRedemptionLost: {
		Subject: "Invite redeemed by another signup",
		Text: "Account {{.account_id}} signed up with invite {{.token_id}}, " +
			"which another signup redeemed first. The account was not added to a group.\n",
	},
}

// Manager renders notices and fans them out to every registered notifier
type Manager struct {
	mu        sync.RWMutex
	notifiers []Notifier
	templates map[NoticeType]*template.Template
	subjects  map[NoticeType]string
}

// NewManager creates a manager with DefaultTemplates
func NewManager(notifiers ...Notifier) *Manager {
	m := &Manager{
		notifiers: notifiers,
		templates: make(map[NoticeType]*template.Template),
		subjects:  make(map[NoticeType]string),
	}
	for noticeType, tmpl := range DefaultTemplates {
		if err := m.RegisterTemplate(noticeType, tmpl); err != nil {
			slog.Error("Failed to register default template", "type", noticeType, "err", err)
		}
	}
	return m
}

// RegisterNotifier adds a notifier
func (m *Manager) RegisterNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifiers = append(m.notifiers, n)
}

// RegisterTemplate adds or replaces the template for a notice type
func (m *Manager) RegisterTemplate(noticeType NoticeType, tmpl NoticeTemplate) error {
	if noticeType == "" || tmpl.Text == "" {
		return fmt.Errorf("invalid input: notice type and text cannot be empty")
	}
	parsed, err := template.New(string(noticeType)).Option("missingkey=zero").Parse(tmpl.Text)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", noticeType, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[noticeType] = parsed
	m.subjects[noticeType] = tmpl.Subject
	return nil
}

func (m *Manager) render(notice Notice) (Notice, error) {
	m.mu.RLock()
	tmpl, ok := m.templates[notice.Type]
	subject := m.subjects[notice.Type]
	m.mu.RUnlock()

	if !ok {
		return notice, nil
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, notice.Data); err != nil {
		return notice, fmt.Errorf("failed to render notice %s: %w", notice.Type, err)
	}
	if notice.Subject == "" {
		notice.Subject = subject
	}
	if notice.Body == "" {
		notice.Body = buf.String()
	}
	return notice, nil
}

// Notify renders the notice and sends it to all notifiers. Every notifier is
// tried; their errors are joined.
func (m *Manager) Notify(ctx context.Context, notice Notice) error {
	rendered, err := m.render(notice)
	if err != nil {
		return err
	}

	m.mu.RLock()
	notifiers := append([]Notifier(nil), m.notifiers...)
	m.mu.RUnlock()

	var errs []error
	for _, n := range notifiers {
		if err := n.Notify(ctx, rendered); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
