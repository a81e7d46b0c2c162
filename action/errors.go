package action

import (
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Ashenafi-pixel/gamba-blinks/chain"
	"github.com/Ashenafi-pixel/gamba-blinks/gamba"
)

var (
	ErrMissingAccount = errors.New("action: missing required body parameter: account")
	ErrInvalidSeed    = errors.New("action: invalid client seed")
	ErrInvalidBody    = errors.New("action: invalid request body")
)

// OpaqueMessage is what callers see for any failure that is not their own.
const OpaqueMessage = "Unable to prepare the transaction right now. Please try again later."

func isCallerError(err error) bool {
	for _, target := range []error{
		ErrMissingAccount,
		ErrInvalidSeed,
		ErrInvalidBody,
		gamba.ErrInvalidIdentity,
		gamba.ErrInvalidWager,
		gamba.ErrInvalidSide,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// StatusCode maps a pipeline error to an HTTP status: 400 for malformed
// requests, 500 for everything else (RPC failures, corrupt on-chain state).
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if isCallerError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// PublicMessage is the error text safe to return to the caller. Package
// prefixes are dropped, so "gamba: invalid wager: ..." reads "Invalid wager: ...".
func PublicMessage(err error) string {
	if !isCallerError(err) {
		return OpaqueMessage
	}
	msg := err.Error()
	for _, prefix := range []string{"action: ", "gamba: "} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}

// Upstream reports whether err came from the chain rather than the request.
func Upstream(err error) bool {
	return errors.Is(err, chain.ErrUpstreamUnavailable)
}
