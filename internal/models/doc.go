// Package models defines the core domain models for the group ledger.
//
// # Models
//
//   - Group, Member: the group directory. Members are referenced by ID everywhere
//     else and never duplicated.
//   - BillLineItem, BillCharges, Treat: inputs to the bill allocation engine.
//   - Allocation, MemberSplit, Warning: the result of allocating one bill.
//   - LedgerEntry: one directed debt ("From owes To Amount") in a group's ledger.
//   - Settlement: a computed net transfer. Never persisted.
//   - MemberBalance: a member's net position over the unsettled ledger.
//
// # Design Principles
//
//  1. Money crosses into a model only as whole currency units (see package money).
//  2. Relationships use ID strings, not pointers.
//  3. JSON field names match the persisted ledger layout.
//  4. Ledger entries are immutable except for Settled, which only goes false to true.
package models
