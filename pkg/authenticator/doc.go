// Package authenticator validates client credentials against stored accounts.
//
// Two mechanisms are supported:
//
//   - Basic: HTTP basic auth for admins and password accounts. The login of
//     a password account is the domain it owns.
//   - signature (subpackage): signed request headers for devices that cannot
//     make encrypted connections. See
//     [github.com/ftddns/ftddns/pkg/authenticator/signature].
//
// Both mechanisms reject disabled accounts before any credential check, and
// both return sentinel errors so the HTTP layer can map each failure to a
// status code without string matching.
package authenticator
