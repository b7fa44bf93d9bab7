// Package statemachine encodes the booking lifecycle as data rather than
// branching code: a lookup table of legal (from, role, to) triples. Handlers
// and the booking engine consult CanTransition instead of hand-rolled switch
// statements, so adding a state or tightening who may drive it only means
// editing the table.
package statemachine

import "github.com/iliyamo/servicecore/internal/model"

// stateRoleKey pairs a booking's current status with the role attempting
// the transition. Splitting the table on role is what lets the same source
// status (e.g. CLAIMED) permit different destinations for different actors
// instead of collapsing them into one "anyone can do this" edge.
type stateRoleKey struct {
	from model.BookingStatus
	role string
}

// transitions lists every legal (from, role) -> to triple. Anything not
// listed here is rejected by CanTransition. "SYSTEM" covers the webhook
// pipeline and the TTL sweeper; everything else is an authenticated actor.
var transitions = map[stateRoleKey]map[model.BookingStatus]bool{
	{model.StatusPendingPayment, "SYSTEM"}: {model.StatusDispatching: true, model.StatusCancelled: true},
	{model.StatusPendingPayment, "USER"}:   {model.StatusCancelled: true},

	{model.StatusDispatching, "PROVIDER"}: {model.StatusClaimed: true},
	{model.StatusDispatching, "USER"}:     {model.StatusCancelled: true},
	{model.StatusDispatching, "SYSTEM"}:   {model.StatusCancelled: true}, // accept deadline expired

	{model.StatusClaimed, "PROVIDER"}: {model.StatusEnRoute: true, model.StatusDispatching: true, model.StatusCancelled: true},
	{model.StatusClaimed, "USER"}:     {model.StatusCancelled: true},

	{model.StatusEnRoute, "PROVIDER"}: {model.StatusArrived: true, model.StatusDispatching: true, model.StatusCancelled: true},
	{model.StatusEnRoute, "USER"}:     {model.StatusCancelled: true},

	{model.StatusArrived, "PROVIDER"}: {model.StatusInProgress: true, model.StatusCancelled: true},
	{model.StatusArrived, "USER"}:     {model.StatusCancelled: true},

	{model.StatusInProgress, "PROVIDER"}: {model.StatusCompletePending: true, model.StatusClosed: true}, // one-step complete-with-capture

	{model.StatusCompletePending, "USER"}:   {model.StatusClosed: true, model.StatusFlagged: true},
	{model.StatusCompletePending, "SYSTEM"}: {model.StatusClosed: true}, // grace window elapsed

	{model.StatusFlagged, "ADMIN"}: {model.StatusClosed: true, model.StatusCancelled: true},
}

// CanTransition reports whether an actor holding role may move a booking
// from `from` to `to`. Ownership checks (this provider, this customer) are
// a separate concern the booking engine enforces before consulting this
// table.
func CanTransition(from, to model.BookingStatus, role string) bool {
	return transitions[stateRoleKey{from, role}][to]
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(s model.BookingStatus) bool {
	return s == model.StatusClosed || s == model.StatusCancelled
}

// IsEligibleForPayout reports whether a booking in this status represents
// completed work a provider should be paid for.
func IsEligibleForPayout(s model.BookingStatus) bool {
	return s == model.StatusClosed
}

// IsEligibleForRefund reports whether a booking in this status, if
// cancelled right now, should have its payment intent released in full
// rather than partially captured as a fee. PAID_SEARCHING is the state
// named by the fee rule (§4.3.5): no provider has travelled yet, so there
// is nothing to charge for.
func IsEligibleForRefund(s model.BookingStatus) bool {
	return s == model.StatusDispatching
}
