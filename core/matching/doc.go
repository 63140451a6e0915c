// Package matching pairs import containers with export bookings for
// street-turns. Every pair surviving the hard filters is scored on distance,
// time gap, organisational alignment, container-type fit and partner
// reputation, classified into a scenario, and priced against the trucking cost
// it avoids. Results are grouped per container and ranked by total saving.
//
// The engine is a pure function over its inputs: it performs no I/O and keeps
// no state between calls. Callers are expected to pass pools already scoped to
// one organisation and filtered to eligible records.
package matching
