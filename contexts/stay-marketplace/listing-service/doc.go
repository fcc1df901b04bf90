// Package listingservice is the stay-marketplace core: accounts, listings,
// reviews and amenities behind a single authenticated, authorization-checked
// application facade.
//
// Layout follows the standard vertical: domain (entities, errors, pure
// decision services), ports, application, adapters (memory, postgres, jwt,
// bcrypt, http) and transport DTOs. All writes flow through the facade, which
// resolves the caller's principal once, consults the authorization guard and
// the cross-entity business rules, and commits through a repository port.
package listingservice
