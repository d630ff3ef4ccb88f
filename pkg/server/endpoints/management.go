package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ftddns/ftddns/pkg/audit"
	"github.com/ftddns/ftddns/pkg/authenticator/signature"
	"github.com/ftddns/ftddns/pkg/server"
	"github.com/ftddns/ftddns/pkg/store"
)

// maxPublicKeySize bounds the PEM upload for signing accounts.
const maxPublicKeySize = 10 * 1024

// bootstrapAdmin is the only user allowed to create further admins.
const bootstrapAdmin = "admin"

// RegisterManagementEndpoints registers the admin-only provisioning routes
// under /mgmt.
func RegisterManagementEndpoints(s *server.Server) {
	mgmt := s.Router.PathPrefix("/mgmt").Subrouter()
	mgmt.HandleFunc("/add-domain/password/{domain}", handleAddPasswordDomain(s)).Methods("GET")
	mgmt.HandleFunc("/add-domain/signing/{domain}", handleAddSigningDomain(s)).Methods("POST")
	mgmt.HandleFunc("/admin/new", handleNewAdmin(s)).Methods("POST")
}

// adminAuth authenticates the request's basic-auth credentials against the
// admin accounts. On failure it writes the response and returns ok=false.
func adminAuth(s *server.Server, w http.ResponseWriter, r *http.Request) (string, bool) {
	user, password, ok := r.BasicAuth()
	if !ok {
		respond(w, http.StatusBadRequest, "Basic authentication is required.")
		return "", false
	}

	admin, err := s.Basic.Admin(r.Context(), user, password)
	if err != nil {
		s.Logger.Warn("admin authentication failed",
			"user", user, "remote", remoteAddr(r), "reason", err)
		s.Audit.Log(audit.AuthenticateEvent{
			Scheme:       "admin",
			Identity:     user,
			ClientIP:     remoteAddr(r),
			ErrorMessage: err.Error(),
		})
		respond(w, basicAuthStatus(err), "")
		return "", false
	}
	return admin, true
}

// checkDomainAvailable verifies the domain is inside the managed zones and
// not yet taken. On failure it writes the response and returns false.
func checkDomainAvailable(s *server.Server, w http.ResponseWriter, r *http.Request, admin, domain string) bool {
	if !s.Zones.DomainIncluded(domain) {
		s.Logger.Warn("admin requested a domain outside the managed zones",
			"admin", admin, "domain", domain)
		respond(w, http.StatusNotAcceptable, "The domain name provided is not available for dynamic DNS.")
		return false
	}

	exists, err := s.Accounts.DomainExists(r.Context(), domain)
	if err != nil {
		s.Logger.Error("database error during domain check", "domain", domain, "error", err)
		respond(w, http.StatusInternalServerError, "")
		return false
	}
	if exists {
		s.Logger.Warn("admin requested a domain that is already in use",
			"admin", admin, "domain", domain)
		respond(w, http.StatusConflict, "The domain name provided is already in use.")
		return false
	}
	return true
}

func handleAddPasswordDomain(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin, ok := adminAuth(s, w, r)
		if !ok {
			return
		}

		domain := strings.TrimSpace(mux.Vars(r)["domain"])
		if !checkDomainAvailable(s, w, r, admin, domain) {
			return
		}

		password, hash, err := s.Issuer.Issue()
		if err != nil {
			s.Logger.Error("issuing credential failed", "error", err)
			respond(w, http.StatusInternalServerError, "")
			return
		}

		if err := s.Accounts.CreatePasswordAccount(r.Context(), domain, hash, admin); err != nil {
			writeCreateError(s, w, err, "password", admin, domain, remoteAddr(r))
			return
		}

		s.Audit.Log(audit.ProvisionEvent{
			Admin: admin, Kind: "password", Subject: domain,
			ClientIP: remoteAddr(r), Success: true,
		})

		body, err := renderCommandDownload(s.BaseURL, domain, password)
		if err != nil {
			s.Logger.Error("rendering command download failed", "error", err)
			respond(w, http.StatusInternalServerError, "")
			return
		}
		respond(w, http.StatusOK, body)
	}
}

func handleAddSigningDomain(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin, ok := adminAuth(s, w, r)
		if !ok {
			return
		}

		domain := strings.TrimSpace(mux.Vars(r)["domain"])
		if !checkDomainAvailable(s, w, r, admin, domain) {
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPublicKeySize))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.Logger.Warn("admin uploaded an oversized public key", "admin", admin)
				respond(w, http.StatusNotAcceptable, "The public key uploaded can't be over 10KiB in size.")
				return
			}
			s.Logger.Error("reading public key upload failed", "error", err)
			respond(w, http.StatusInternalServerError, "")
			return
		}
		if len(body) == 0 {
			respond(w, http.StatusNotAcceptable, "The public key uploaded can't be empty.")
			return
		}

		publicKey, err := signature.ParsePublicKey(body)
		if err != nil {
			s.Logger.Warn("admin uploaded an unparseable public key",
				"admin", admin, "error", err)
			respond(w, http.StatusBadRequest, "The uploaded file is not a PEM RSA public key.")
			return
		}

		pemKey, err := signature.EncodePublicKeyPEM(publicKey)
		if err != nil {
			s.Logger.Error("encoding public key failed", "error", err)
			respond(w, http.StatusInternalServerError, "")
			return
		}

		if err := s.Accounts.CreateSigningAccount(r.Context(), domain, pemKey, admin); err != nil {
			writeCreateError(s, w, err, "signing", admin, domain, remoteAddr(r))
			return
		}

		s.Audit.Log(audit.ProvisionEvent{
			Admin: admin, Kind: "signing", Subject: domain,
			ClientIP: remoteAddr(r), Success: true,
		})
		respond(w, http.StatusOK, "")
	}
}

func handleNewAdmin(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin, ok := adminAuth(s, w, r)
		if !ok {
			return
		}

		if admin != bootstrapAdmin {
			s.Logger.Warn("non-bootstrap admin attempted to create an admin", "user", admin)
			respond(w, http.StatusUnauthorized, "Your user is not allowed to execute this operation.")
			return
		}

		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			respond(w, http.StatusBadRequest, "")
			return
		}
		if creds.Username == "" || creds.Password == "" {
			respond(w, http.StatusBadRequest, "Both username and password are required.")
			return
		}

		hash, err := s.Hasher.Hash(creds.Password)
		if err != nil {
			s.Logger.Error("hashing admin password failed", "error", err)
			respond(w, http.StatusInternalServerError, "")
			return
		}

		if err := s.Accounts.CreateAdmin(r.Context(), creds.Username, hash); err != nil {
			if errors.Is(err, store.ErrDuplicateUser) {
				s.Logger.Warn("admin creation for existing user", "user", creds.Username)
				respond(w, http.StatusConflict, "This username already has an account.")
				return
			}
			s.Logger.Error("admin creation failed", "user", creds.Username, "error", err)
			respond(w, http.StatusInternalServerError, "")
			return
		}

		s.Audit.Log(audit.ProvisionEvent{
			Admin: admin, Kind: "admin", Subject: creds.Username,
			ClientIP: remoteAddr(r), Success: true,
		})
		respond(w, http.StatusOK, "Account "+creds.Username+" created.")
	}
}

func writeCreateError(s *server.Server, w http.ResponseWriter, err error, kind, admin, domain, clientIP string) {
	s.Audit.Log(audit.ProvisionEvent{
		Admin: admin, Kind: kind, Subject: domain,
		ClientIP: clientIP, ErrorMessage: err.Error(),
	})
	if errors.Is(err, store.ErrDuplicateDomain) {
		respond(w, http.StatusConflict, "The domain name provided is already in use.")
		return
	}
	s.Logger.Error("account creation failed", "domain", domain, "error", err)
	respond(w, http.StatusInternalServerError, "")
}
