package audit

import "fmt"

// AuthenticateEvent records an authentication attempt under one of the
// credential schemes ("password", "signature", "admin").
type AuthenticateEvent struct {
	Scheme       string
	Identity     string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated with the %s scheme", e.Identity, e.Scheme)
	}
	msg := fmt.Sprintf("%s failed to authenticate with the %s scheme", e.Identity, e.Scheme)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:   {"scheme": e.Scheme, "identity": e.Identity},
		SDIDClient: {"ip": e.ClientIP},
	}
}

// ProvisionEvent records an account-management action by an admin.
type ProvisionEvent struct {
	Admin        string
	Kind         string // "password", "signing" or "admin"
	Subject      string // the domain or user created
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e ProvisionEvent) MessageID() string {
	return "provision"
}

func (e ProvisionEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("admin %s created %s account %s", e.Admin, e.Kind, e.Subject)
	}
	msg := fmt.Sprintf("admin %s failed to create %s account %s", e.Admin, e.Kind, e.Subject)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ProvisionEvent) Severity() Severity {
	// Account creation is always operator-relevant.
	return SeverityWarning
}

func (e ProvisionEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAction: {"admin": e.Admin, "kind": e.Kind, "subject": e.Subject},
		SDIDClient: {"ip": e.ClientIP},
	}
}

// UpdateEvent records a record-update attempt for a domain.
type UpdateEvent struct {
	Domain   string
	IP       string
	ClientIP string
	Success  bool
}

func (e UpdateEvent) MessageID() string {
	return "update"
}

func (e UpdateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("updated %s to %s", e.Domain, e.IP)
	}
	return fmt.Sprintf("failed to update %s to %s", e.Domain, e.IP)
}

func (e UpdateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e UpdateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAction: {"domain": e.Domain, "ip": e.IP},
		SDIDClient: {"ip": e.ClientIP},
	}
}
