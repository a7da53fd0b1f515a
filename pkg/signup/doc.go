// Package signup creates accounts, optionally gated by invite tokens.
//
// A signup runs these steps in order and stops at the first fatal failure:
//
//  1. If a raw invite token is given, fingerprint it and require an
//     unredeemed, unexpired token. Otherwise require open signup.
//  2. Validate the submitted form. Failures are reported per field.
//  3. Assign the role (first account is admin) and register the account.
//  4. Issue a session.
//  5. Redeem the invite with a conditional write.
//  6. If this request redeemed the invite and it names a group, join it.
//
// Steps 5 and 6 never undo the account. A lost redemption or a failed group
// link is logged and sent to the operator notifier.
//
// Missing and expired invites carry different error codes for logs but are
// shown to callers with the same message.
package signup
