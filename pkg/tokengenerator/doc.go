// Package tokengenerator signs session JWTs and writes them as cookies.
package tokengenerator
