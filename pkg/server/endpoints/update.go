package endpoints

import (
	"errors"
	"net/http"

	"github.com/ftddns/ftddns/pkg/audit"
	"github.com/ftddns/ftddns/pkg/authenticator"
	"github.com/ftddns/ftddns/pkg/authenticator/signature"
	"github.com/ftddns/ftddns/pkg/server"
	"github.com/ftddns/ftddns/pkg/updater"
)

// RegisterUpdateEndpoints registers the two record-update routes: /secure
// for password clients and /unsecure for signing clients.
func RegisterUpdateEndpoints(s *server.Server) {
	s.Router.HandleFunc("/secure/nic/update", handleSecureUpdate(s)).Methods("GET")
	s.Router.HandleFunc("/unsecure/nic/update", handleUnsecureUpdate(s)).Methods("GET")
}

func handleSecureUpdate(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		login, password, ok := r.BasicAuth()
		if !ok {
			respond(w, http.StatusBadRequest, "Basic authentication is required.")
			return
		}

		domain, err := s.Basic.Domain(r.Context(), login, password)
		if err != nil {
			s.Logger.Warn("password authentication failed",
				"domain", login, "remote", remoteAddr(r), "reason", err)
			s.Audit.Log(audit.AuthenticateEvent{
				Scheme:       "password",
				Identity:     login,
				ClientIP:     remoteAddr(r),
				ErrorMessage: err.Error(),
			})
			respond(w, basicAuthStatus(err), "")
			return
		}

		update(s, w, r, domain)
	}
}

func handleUnsecureUpdate(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claimed := r.Header.Get(signature.HeaderDomain)

		domain, err := s.Signature.Authenticate(
			r.Context(),
			r.Header.Get(signature.HeaderDate),
			claimed,
			r.Header.Get(signature.HeaderSignature),
		)
		if err != nil {
			s.Logger.Warn("signature authentication failed",
				"domain", claimed, "remote", remoteAddr(r), "reason", err)
			s.Audit.Log(audit.AuthenticateEvent{
				Scheme:       "signature",
				Identity:     claimed,
				ClientIP:     remoteAddr(r),
				ErrorMessage: err.Error(),
			})
			respond(w, signatureAuthStatus(err), "")
			return
		}

		update(s, w, r, domain)
	}
}

// update runs the shared tail of both schemes: take the caller's IPv4 and
// upsert the authenticated domain's A record.
func update(s *server.Server, w http.ResponseWriter, r *http.Request, domain string) {
	ip, err := clientIPv4(r)
	if err != nil {
		if errors.Is(err, errNotIPv4) {
			respond(w, http.StatusNotAcceptable, "Only IPv4 clients can update A records.")
			return
		}
		respond(w, http.StatusBadRequest, "")
		return
	}

	s.Logger.Info("attempting record update", "domain", domain, "ip", ip.String())
	outcome := s.Updater.UpsertARecord(r.Context(), domain, ip)

	s.Audit.Log(audit.UpdateEvent{
		Domain:   domain,
		IP:       ip.String(),
		ClientIP: remoteAddr(r),
		Success:  outcome.Status == updater.StatusOK,
	})
	writeOutcome(w, outcome)
}

func basicAuthStatus(err error) int {
	switch {
	case errors.Is(err, authenticator.ErrBadCredentials),
		errors.Is(err, authenticator.ErrAccountDisabled):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func signatureAuthStatus(err error) int {
	switch {
	case errors.Is(err, signature.ErrMissingHeaders):
		return http.StatusPreconditionFailed
	case errors.Is(err, signature.ErrMalformedTimestamp),
		errors.Is(err, signature.ErrMalformedSignature):
		return http.StatusBadRequest
	case errors.Is(err, signature.ErrTimestampInFuture),
		errors.Is(err, signature.ErrTimestampExpired):
		return http.StatusNotAcceptable
	case errors.Is(err, signature.ErrDomainNotFound):
		return http.StatusNotFound
	case errors.Is(err, signature.ErrSignatureInvalid),
		errors.Is(err, signature.ErrAccountDisabled):
		return http.StatusUnauthorized
	default:
		// Includes corrupt stored keys and persistence failures.
		return http.StatusInternalServerError
	}
}
