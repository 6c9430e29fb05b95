// Package dev provides live reload for routemark development.
//
// This package implements:
//   - Polling file watcher over the content and static directories
//   - WebSocket-based browser refresh
//   - Error overlay in the browser
//
// # Architecture
//
// The development server consists of:
//
//   - Watcher: Scans watched directories for changes
//   - ReloadServer: Notifies browsers of changes via WebSocket
//   - Server: Ties the two together and invalidates the content cache
//
// # Usage
//
//	srv := dev.NewServer(dev.ServerOptions{
//	    Watch:        []string{"content", "public"},
//	    OnInvalidate: loader.Invalidate,
//	})
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	go srv.Start(ctx)
//	mux.HandleFunc(dev.ReloadEndpoint, srv.Reload().HandleWebSocket)
//
// # Reload Protocol
//
// The browser connects to /_routemark/reload via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "reload"}                // Triggers full page reload
//	{"type": "css"}                   // Triggers CSS-only reload
//	{"type": "error", "error": "..."} // Shows error overlay
//	{"type": "clear"}                 // Clears error overlay
package dev
