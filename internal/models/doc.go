// Package models defines the core domain models for Splitledger.
//
// # Settlement Models
//
//   - User: Registered account with roles and declared group memberships
//   - Group: Expense-sharing group owning a budget and its per-member split
//   - Payment: A member's self-reported share payment and its approval state
//
// # Booking Models
//
// The movie booking inventory (Movie, Showtime, Booking) is an independent
// subsystem that shares storage but never touches the settlement engine.
//
// # Design Principles
//
//  1. Usernames and group names are the identifiers the API speaks; they are
//     the primary keys in storage as well.
//  2. Models hold no behavior beyond constructors and enum parsing; the
//     service layer owns all state transitions.
//  3. Avoid circular references: relationships are name strings, not pointers.
package models
