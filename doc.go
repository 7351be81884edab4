// Package redux is a small unidirectional state container.
//
// A Store holds one State value keyed by slice name. Slice reducers are
// combined into a single RootReducer with Combine; the store derives its
// initial state by running that root reducer without a previous state.
// Actions flow through an optional middleware chain built with
// ApplyMiddleware before reaching the root reducer, and subscribers are
// notified synchronously whenever a dispatch changes at least one slice.
//
// Data flow:
//
//	Dispatch -> middleware[0] -> ... -> middleware[n] -> RootReducer -> subscribers
//
// Change detection:
//
//	Slice reducers report whether they produced a new value. Comparable
//	reducers compare with ==, Func reducers return the flag explicitly. A
//	dispatch that leaves every slice unchanged keeps the previous State and
//	notifies nobody.
//
// Reentrancy:
//
//	A Dispatch issued from inside an in-flight dispatch (a subscriber, a
//	middleware or a reducer) is queued and applied in order once the current
//	action completes. Dispatch calls from other goroutines wait for the
//	in-flight dispatch and then run their own action, so each caller gets
//	its own result and error.
package redux
