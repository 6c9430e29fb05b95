package clientdist

import _ "embed"

// RoutemarkJS is the navigation client bundle.
//
// It intercepts clicks on same-origin anchors, swaps the content
// element with the fetched fragment, and keeps browser history in
// sync. The app serves it at "/_routemark/client.js".
//
//go:embed routemark.js
var RoutemarkJS []byte
