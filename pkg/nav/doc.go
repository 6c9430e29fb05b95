// Package nav implements the navigation bus for single-page sites.
//
// All location changes in a process flow through a Hub: programmatic
// navigation, history back/forward, and link activations forwarded by the
// shell. The Hub owns the current location and an explicit history stack,
// and it is the only writer of both. Listeners subscribe with Listen and
// receive an immutable parsed snapshot of the location on registration
// and after every change, so no code needs to wrap or restore shared
// platform primitives.
//
// # Usage
//
//	hub := nav.NewHub()
//
//	stop := hub.Listen(func(p route.ParsedPath) {
//	    render(p)
//	})
//	defer stop()
//
//	hub.Navigate("/list/news")
//	hub.Navigate("/list/tech", nav.WithReplace())
//	hub.Back()
//
// A process-wide hub is available through Default and the package-level
// Listen, Navigate, Back, Forward, and Current functions.
//
// # Dispatch
//
// Notification is synchronous: Navigate returns after every listener has
// seen the new location. A navigation issued from inside a listener is
// queued and applied once the current dispatch finishes; a queued
// navigation that targets the location that is current by then is
// dropped, which keeps listener loops from ping-ponging on one location.
package nav
