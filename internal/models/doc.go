// Package models defines the core domain models for the poker-night ledger.
//
// # Persisted Models
//
//   - Game: one poker night, owning its players and transactions
//   - Player: a participant in exactly one game
//   - Transaction: a single buy-in or cash-out, append-only
//
// # Derived Models
//
// The following are computed on demand and never persisted:
//
//   - PlayerBalance: per-player totals and net position
//   - Settlement: one payer-to-payee transfer
//   - Validation: result of checking whether a ledger can settle
//   - GameSummary: game + balances + settlements + total pot
//
// # Design Principles
//
//  1. Relationships use ID strings, not pointers, to avoid circular references
//  2. Derived models are recomputed fresh on every query, never cached
//  3. Timestamps are Unix seconds for lossless storage round-trips
package models
