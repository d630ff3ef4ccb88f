// Package zone maps fully-qualified domain names to provider zone
// identifiers.
package zone

import (
	"log/slog"
	"strings"

	iradix "github.com/hashicorp/go-immutable-radix"

	"github.com/ftddns/ftddns/pkg/dnsprovider"
)

// Resolver answers longest-suffix containment queries over the zones enabled
// for dynamic DNS. It is built once at startup and read-only afterwards, so
// request handlers share it without locking.
type Resolver struct {
	tree *iradix.Tree
}

// Build constructs a Resolver from the provider's zone listing and the
// configured allow-list of zone identifiers.
//
// An allow-list entry binds the first provider zone whose opaque identifier
// contains the entry as a substring, and is then consumed. Entries left
// unmatched are a configuration problem: they are logged as errors but do
// not prevent startup.
func Build(logger *slog.Logger, zones []dnsprovider.Zone, allowlist []string) *Resolver {
	remaining := make([]string, len(allowlist))
	copy(remaining, allowlist)

	tree := iradix.New()
	for _, z := range zones {
		logger.Debug("provider zone", "name", z.Name, "id", z.ID)
		idx := -1
		for i, entry := range remaining {
			if strings.Contains(z.ID, entry) {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)

		logger.Info("zone enabled for dynamic DNS", "zone", z.Name, "id", z.ID)
		tree, _, _ = tree.Insert(suffixKey(z.Name), z.ID)
	}

	if len(remaining) > 0 {
		logger.Error("allow-list entries matched no provider zone", "entries", remaining)
	}

	return &Resolver{tree: tree}
}

// DomainIncluded reports whether fqdn is equal to or a subdomain of a bound
// zone.
func (r *Resolver) DomainIncluded(fqdn string) bool {
	_, ok := r.Resolve(fqdn)
	return ok
}

// Resolve returns the zone identifier for the longest bound zone that fqdn
// falls under.
func (r *Resolver) Resolve(fqdn string) (string, bool) {
	_, value, ok := r.tree.Root().LongestPrefix(suffixKey(fqdn))
	if !ok {
		return "", false
	}
	return value.(string), true
}

// suffixKey renders an FQDN with its labels reversed and a terminating dot,
// so that a radix longest-prefix lookup becomes a longest-suffix match on
// whole labels. "a.b.example.com" becomes "com.example.b.a." and has
// "com.example." (zone example.com) as a prefix, while "notexample.com"
// ("com.notexample.") does not.
func suffixKey(fqdn string) []byte {
	fqdn = strings.ToLower(strings.Trim(fqdn, "."))
	labels := strings.Split(fqdn, ".")
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return []byte(strings.Join(labels, ".") + ".")
}
