package runtime

import (
	"embed"
)

// ClientEntry is the path of the runtime client module inside ClientFS.
const ClientEntry = "client/index.js"

//go:embed client/*.js
var clientFS embed.FS

// ClientFS holds the runtime every custom elements bundle links against.
func ClientFS() embed.FS {
	return clientFS
}
