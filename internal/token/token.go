// Package token encodes staff-facing actions into compact callback tokens.
//
// A token is "<action>::<customer>::<orderID>". The customer identifier is
// a Telegram username and may contain underscores, so a multi-character
// delimiter is used; usernames are assumed to never contain "::".
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned for tokens this codec did not produce.
var ErrMalformed = errors.New("malformed action token")

const delimiter = "::"

type Action string

const (
	// ActionAccept marks an order as taken into preparation.
	ActionAccept Action = "accept"
	// ActionReady marks an order as ready for pickup.
	ActionReady Action = "ready"
)

func validAction(a Action) bool {
	return a == ActionAccept || a == ActionReady
}

// Encode builds a callback token for a staff action on one order.
func Encode(action Action, customer string, orderID int64) string {
	return string(action) + delimiter + customer + delimiter + strconv.FormatInt(orderID, 10)
}

// Decode parses a staff action token. The customer part is everything
// between the first and the last delimiter, so underscores and other plain
// characters inside usernames survive the round trip.
func Decode(tok string) (Action, string, int64, error) {
	i := strings.Index(tok, delimiter)
	j := strings.LastIndex(tok, delimiter)
	if i < 0 || j <= i {
		return "", "", 0, ErrMalformed
	}
	action := Action(tok[:i])
	if !validAction(action) {
		return "", "", 0, ErrMalformed
	}
	customer := tok[i+len(delimiter) : j]
	if customer == "" {
		return "", "", 0, ErrMalformed
	}
	orderID, err := strconv.ParseInt(tok[j+len(delimiter):], 10, 64)
	if err != nil {
		return "", "", 0, fmt.Errorf("%w: bad order id", ErrMalformed)
	}
	return action, customer, orderID, nil
}
