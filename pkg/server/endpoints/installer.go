package endpoints

import (
	"embed"
	"encoding/json"
	"net/http"
	"strings"
	"text/template"

	"github.com/ftddns/ftddns/pkg/server"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var installerTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

type installerData struct {
	Username string
	Password string
	URL      string
}

// RegisterInstallerEndpoints registers the client install-script routes.
// GET returns the script with empty credentials; POST embeds the submitted
// credentials so the script is ready to run.
func RegisterInstallerEndpoints(s *server.Server) {
	s.Router.HandleFunc("/secure/ft-ddns.sh", handleInstallerEmpty(s)).Methods("GET")
	s.Router.HandleFunc("/secure/ft-ddns.sh", handleInstaller(s)).Methods("POST")
}

func handleInstallerEmpty(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeInstaller(s, w, Credentials{})
	}
}

func handleInstaller(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			respond(w, http.StatusBadRequest, "")
			return
		}
		writeInstaller(s, w, creds)
	}
}

func writeInstaller(s *server.Server, w http.ResponseWriter, creds Credentials) {
	var sb strings.Builder
	err := installerTemplates.ExecuteTemplate(&sb, "ft-ddns.sh.tmpl", installerData{
		Username: creds.Username,
		Password: creds.Password,
		URL:      s.BaseURL + "/secure/nic/update",
	})
	if err != nil {
		s.Logger.Error("rendering install script failed", "error", err)
		respond(w, http.StatusInternalServerError, "")
		return
	}

	w.Header().Set("Content-Type", "text/x-shellscript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sb.String()))
}

// renderCommandDownload produces the snippet returned after a password
// account is created, telling the admin how to fetch a preconfigured
// install script.
func renderCommandDownload(baseURL, username, password string) (string, error) {
	var sb strings.Builder
	err := installerTemplates.ExecuteTemplate(&sb, "command_download.txt.tmpl", installerData{
		Username: username,
		Password: password,
		URL:      baseURL + "/secure/ft-ddns.sh",
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
