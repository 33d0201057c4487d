package engine

import (
	"errors"
	"fmt"
)

// ErrNoNodes is returned when a request carries an empty node list.
var ErrNoNodes = errors.New("no nodes provided")

// ErrInvalidStake is returned when a node stake is negative or not a finite number.
var ErrInvalidStake = errors.New("stake must be a finite non-negative number")

// MissingFieldError is returned when the chosen scenario needs a node
// attribute that none of the nodes carry.
type MissingFieldError struct {
	Field    string
	Scenario Scenario
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("node data lacks %s information for %s scenario", e.Field, e.Scenario.Label())
}
