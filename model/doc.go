// Package model defines the shared record types used across the
// multidex packages: records, schemas, and scored identifiers.
package model
