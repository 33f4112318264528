// Package services contains the core business logic, wired to adapters
// through the ports packages.
package services
