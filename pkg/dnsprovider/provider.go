// Package dnsprovider defines the types consumed from the authoritative
// DNS provider.
package dnsprovider

import (
	"context"
	"net/netip"
)

// Zone is one provider-managed authoritative namespace.
type Zone struct {
	// ID is the provider's opaque zone identifier.
	ID string
	// Name is the zone's domain name as reported by the provider,
	// usually with a trailing dot.
	Name string
}

// Provider is the subset of the provider API the service consumes: the zone
// listing used to build the zone index at startup, and the idempotent A
// record upsert.
type Provider interface {
	ListZones(ctx context.Context) ([]Zone, error)
	UpsertA(ctx context.Context, zoneID, fqdn string, ip netip.Addr, ttl int64) error
}
