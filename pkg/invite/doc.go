// Package invite stores and looks up invite tokens.
//
// Raw tokens are handed to people out of band and never stored; the database
// only holds Fingerprint(raw). A token is single use: MarkRedeemed performs a
// conditional write so that when two requests race on the same token exactly
// one of them succeeds and the other sees ErrTokenAlreadyRedeemed.
//
//	svc := invite.NewService(invite.NewPostgresRepository(pool))
//	issued, err := svc.Issue(ctx, &groupID)
//	// give issued.RawToken to the invitee
//
// Expiry is not a property of the stored token; it is computed from CreatedAt
// by the signup policy so the lifetime can be reconfigured.
package invite
