// Package router mounts the signup endpoints and the cookie-authenticated
// session endpoints (/me, /logout) on a chi router.
package router
