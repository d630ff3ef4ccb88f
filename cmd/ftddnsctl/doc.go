// ft-ddns is a small dynamic DNS service for personal domains. Registered
// clients authenticate with a password or with signed request headers and
// point the A record of their domain at their current address. Records live
// in Amazon Route 53; only domains inside an allow-listed set of hosted
// zones may be updated.
//
// The service is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: endpoint handlers and install-script templates
//   - pkg/authenticator: password and signed-header authentication
//   - pkg/credentials: password hashing and credential issuance
//   - pkg/zone: hosted-zone allow-list and fqdn resolution
//   - pkg/updater: idempotent A record upserts
//   - pkg/dnsprovider: DNS provider abstraction and the Route 53 client
//   - pkg/model: database models
//   - pkg/store: account persistence
//   - pkg/audit: RFC 5424 audit logging
//   - pkg/imds: EC2 instance metadata client for self-registration
//
// # Quick Start
//
//	# Run database migrations
//	ftddnsctl db migrate
//
//	# Start the server (migrates on start unless --no-migrate)
//	DDNS_ADMIN_PASSWORD=changeme ftddnsctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - HOSTED_ZONE_ID_LIST: semicolon-separated hosted zone ids enabled for updates
//   - AWS_REGION: Route 53 client region (default: ca-central-1)
//   - USE_PRIVATE_HOSTED_ZONE: restrict zone discovery to private hosted zones
//   - DDNS_ADMIN_PASSWORD: bootstrap password for the "admin" account
//   - FT_DDNS_BASE_URL: external URL embedded in rendered install scripts
//   - FT_DDNS_PUBLIC_DOMAIN / FT_DDNS_PRIVATE_DOMAIN: self-register this
//     instance's addresses at startup
//   - DRY_RUN: log record changes instead of submitting them
//   - FTDDNS_LOG_LEVEL: log level (debug, info, warn, error)
package main
