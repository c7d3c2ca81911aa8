// Package store defines the persistence interfaces consumed by the service
// layer, along with the shared error taxonomy used by their implementations
// under internal/platform.
package store
