package notification

import "context"

// NoticeType identifies what happened
type NoticeType string

const (
	// NoticeGroupLinkFailed: an account was created but joining the invite group failed.
	NoticeGroupLinkFailed NoticeType = "group_link_failed"
	// NoticeRedemptionLost: an account was created but its invite had already been redeemed.
	NoticeRedemptionLost NoticeType = "redemption_lost"
)

// Notice is a rendered message for the operator
type Notice struct {
	Type    NoticeType
	To      string
	Subject string
	Body    string
	Data    map[string]string
}

// Notifier delivers a notice
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, notice Notice) error

func (f NotifierFunc) Notify(ctx context.Context, notice Notice) error {
	return f(ctx, notice)
}
