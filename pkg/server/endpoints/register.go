package endpoints

import (
	"github.com/ftddns/ftddns/pkg/server"
)

// RegisterAll registers every endpoint on the server.
func RegisterAll(srv *server.Server) {
	RegisterUpdateEndpoints(srv)
	RegisterManagementEndpoints(srv)
	RegisterInstallerEndpoints(srv)
}
