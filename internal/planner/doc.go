// Package planner chooses a single cue strike for a billiard table snapshot.
//
// Given the cue ball, the target balls, the pockets and the cushion segments
// in one planar frame (millimeters), it enumerates straight shots first and,
// only when none is playable, single-cushion bank shots built by mirroring
// the target across each cushion line. The cheapest candidate by path length
// is converted into a 6-DOF tool pose and a total travel distance.
//
// Everything in this package is pure: no I/O, no logging, no shared state.
package planner
