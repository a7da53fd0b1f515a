// Package account creates wishlist accounts and links them to groups.
//
// Accounts are persisted together with their username credential in one
// atomic write. Username and email are unique; the store reports a clash as
// ErrDuplicateIdentity rather than the registrar checking beforehand.
//
// The very first account becomes RoleAdmin and every later one RoleUser.
// AssignRole decides this by counting accounts before Register runs, so two
// first signups racing each other can both be made admin.
package account
