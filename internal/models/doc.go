// Package models defines the core domain models for studentbook.
//
// # Models
//
//   - Account: a registered username/phone/password-hash triple used to gate access
//   - Student: a student profile with demographic, contact, address and location fields
//   - Location: an optional map coordinate attached to a Student
//
// Accounts and students are independent. There is no per-account ownership of
// student records; any authenticated account sees every student.
//
// # Design Principles
//
//  1. **Store-assigned identity**: Student.ID is written by the store on insert, never by callers
//  2. **Explicit absence**: "no location" is a nil Location, not a 0,0 coordinate
//  3. **Values, not shared state**: callers get copies; the store owns the rows
package models
