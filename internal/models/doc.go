// Package models defines the core domain models for receiptsplit.
//
// # Models
//
//   - RawItem: an unvalidated receipt line as produced by the extraction
//     gateway or typed in by hand
//   - Item: a normalized receipt line with a stable ID and an assignment set
//   - Person: one participant in the split
//   - Totals: the tip and tax entered for the receipt
//   - PersonSplit: calculated share of the receipt for one person
//
// Participants are identified by generated IDs rather than names, so two
// people with the same name can split the same receipt.
//
// # Design Principles
//
// 1. **Session scope**: nothing here outlives one pass through the screens
// 2. **Value semantics**: operations return new slices instead of mutating
// 3. **Avoid circular references**: use ID strings instead of pointers for relationships
// 4. **JSON shape is the carrier contract**: field tags match what the browser
// client stores between screens
package models
