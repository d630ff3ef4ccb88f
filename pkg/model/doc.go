// Package model defines the database models for ft-ddns.
//
// This package contains GORM models that map to the ft-ddns PostgreSQL
// schema. A given domain may be owned by at most one of the two
// domain-owning account kinds at a time.
//
// # Core Models
//
//   - AdminAccount: operators that provision domain accounts
//   - PasswordAccount: domains updated with basic-auth credentials
//   - SigningAccount: domains updated with signed request headers
package model
