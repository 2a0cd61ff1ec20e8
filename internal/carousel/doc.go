// Package carousel implements the looping slide track used by device cards.
//
// The track renders N logical slides with a copy of the last slide in front
// and a copy of the first slide behind, N+2 positions in total. Logical slide
// i sits at offset -(i+1)*width, so the initial offset of -width shows slide
// 0 and the clones are only ever visible while a transition or drag runs past
// either end.
//
// Input arrives as drag deltas (DragStart, DragMove, DragEnd) or discrete
// commands (Advance, SelectIndex). Only one transition may be in flight: a
// shift starts it and Settle, called when the transition completes, ends it.
// Settle snaps a clone position back onto the real slide (index -1 becomes
// N-1, index N becomes 0), updates the dot indicators and allows the next
// shift.
//
// Outside of an in-flight transition Index is always in [0, N-1] and exactly
// one dot is active.
//
// A Carousel is not safe for concurrent use.
package carousel
