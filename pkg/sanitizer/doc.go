// Package sanitizer normalizes traveller form input before validation.
//
// All functions are idempotent. Invalid input is never an error here: a
// phone number that cannot be parsed is passed through trimmed so the
// validator can report it.
package sanitizer
