// Package ratelimit limits requests per client IP with token buckets from
// golang.org/x/time/rate.
package ratelimit
