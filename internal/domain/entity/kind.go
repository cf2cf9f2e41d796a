// Package entity defines the entity kinds the platform manages and their
// collection bindings.
package entity

import "fmt"

// Kind identifies which collection a record belongs to.
type Kind string

// Entity kinds, in the order sources are queried during search.
const (
	User    Kind = "user"
	Team    Kind = "team"
	Pump    Kind = "pump"
	Request Kind = "request"
)

// All lists every kind in stable search order.
func All() []Kind {
	return []Kind{User, Team, Pump, Request}
}

// Parse converts a string into a Kind.
func Parse(s string) (Kind, error) {
	switch Kind(s) {
	case User, Team, Pump, Request:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}

// Collection returns the persisted collection name for the kind.
// The names are an external contract with the document store.
func (k Kind) Collection() string {
	switch k {
	case User:
		return "users"
	case Team:
		return "teams"
	case Pump:
		return "petrolPumps"
	case Request:
		return "pumpRequests"
	}
	return string(k)
}

// String returns the kind tag.
func (k Kind) String() string { return string(k) }
