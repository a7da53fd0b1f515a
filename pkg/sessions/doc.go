// Package sessions issues authenticated sessions for accounts.
//
// A session is a stored record plus a signed HS256 token whose subject is the
// account id and whose "sid" claim is the session id. Handlers attach the
// token as an HTTP-only cookie.
package sessions
