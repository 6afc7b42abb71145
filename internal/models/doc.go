// Package models defines the core domain models for tripsplit.
//
// # Models
//
//   - User: registered account that can own trips and be linked to members
//   - Trip: a shared journey with a budget and a list of members
//   - Member: one participant of a trip (optionally linked to a User)
//   - Expense: a shared cost paid by one member and split among members
//   - Split: one member's share of an expense
//   - Payment: a recorded settlement between two members
//
// # Design Principles
//
//  1. **Derived balances**: a member's balance is never stored. It is always
//     recomputed from expenses and payments by the calculator package.
//  2. **Fixed-point money**: every amount is a decimal.Decimal with two places of
//     currency precision.
//  3. **Avoid circular references**: relationships use ID strings, not pointers.
package models
