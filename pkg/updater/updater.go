// Package updater orchestrates A record upserts against the DNS provider.
package updater

import (
	"context"
	"errors"
	"log/slog"
	"net/netip"

	"github.com/aws/smithy-go"

	"github.com/ftddns/ftddns/pkg/dnsprovider"
	"github.com/ftddns/ftddns/pkg/zone"
)

// RecordTTL is the fixed TTL applied to every upserted A record.
const RecordTTL int64 = 180

// Status classifies the result of an update attempt.
type Status int

const (
	StatusOK Status = iota
	// StatusNotAcceptable: the domain is outside the managed zones. The
	// provider is never contacted in this case.
	StatusNotAcceptable
	// StatusServiceUnavailable: the provider call failed. Detail is logged
	// server-side and never echoed to the caller.
	StatusServiceUnavailable
)

// Outcome is the typed result returned to the HTTP layer. Message is safe to
// show to the client.
type Outcome struct {
	Status  Status
	Message string
}

// Updater performs idempotent A record upserts for resolved domains.
type Updater struct {
	provider dnsprovider.Provider
	zones    *zone.Resolver
	logger   *slog.Logger
	// dryRun logs the change instead of submitting it.
	dryRun bool
}

// New creates an Updater.
func New(provider dnsprovider.Provider, zones *zone.Resolver, logger *slog.Logger, dryRun bool) *Updater {
	return &Updater{provider: provider, zones: zones, logger: logger, dryRun: dryRun}
}

// UpsertARecord resolves the domain's zone and submits one UPSERT change for
// domain -> ip with the fixed TTL. The call keeps no local state; repeating
// it with the same inputs submits the same change.
func (u *Updater) UpsertARecord(ctx context.Context, domain string, ip netip.Addr) Outcome {
	zoneID, ok := u.zones.Resolve(domain)
	if !ok {
		return Outcome{
			Status:  StatusNotAcceptable,
			Message: "The domain requested is not in any hosted zone that is enabled for dynamic DNS.",
		}
	}

	if u.dryRun {
		u.logger.Warn("dry run: would have submitted record change",
			"domain", domain, "ip", ip.String(), "zone", zoneID, "ttl", RecordTTL)
		return Outcome{Status: StatusOK, Message: "Would have updated the record."}
	}

	if err := u.provider.UpsertA(ctx, zoneID, domain, ip, RecordTTL); err != nil {
		u.logger.Warn("provider change failed",
			"domain", domain, "zone", zoneID, "detail", providerErrorDetail(err))
		return Outcome{
			Status:  StatusServiceUnavailable,
			Message: "Failed to submit the domain change to the DNS provider.",
		}
	}

	u.logger.Info("record updated", "domain", domain, "ip", ip.String())
	return Outcome{Status: StatusOK, Message: "Record updated."}
}

// providerErrorDetail extracts the provider's error message when the failure
// carries one.
func providerErrorDetail(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorMessage()
	}
	return err.Error()
}
