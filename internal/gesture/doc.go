// Package gesture turns raw pointer sequences on one surface into semantic
// gestures.
//
// A Recognizer is a two-state machine (idle, pressed). Each press/release
// cycle produces at most one terminal Outcome, classified in this order:
//
//  1. vertical movement dominates and exceeds the move-end threshold: move-end
//  2. shorter than the short-click bound, little horizontal movement: short-click
//  3. shorter than the medium-click bound: medium-click
//  4. otherwise, still little horizontal movement: long-click
//  5. horizontal drag past the click bound: no gesture
//
// While pressed, vertical-dominant movement is reported continuously through
// OnMove. Horizontal movement is left to the surrounding carousel.
//
// Leaving the surface while pressed only evaluates rule 1 and returns the
// recognizer to idle. A press while already pressed is ignored, which absorbs
// the duplicate mouse events browsers synthesise after touch events.
//
// A Recognizer is not safe for concurrent use; callers serialise events per
// surface.
package gesture
