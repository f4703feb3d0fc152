// Package core provides the contact normalization pipeline that turns an
// arbitrary spreadsheet export into a table ready for a Sendy list import.
//
// This package contains all domain logic independent of any UI or transport
// layer. It operates on already-decoded text and never performs I/O, logging,
// or network access, so it can be used by web handlers, CLI tools, or tests
// without modification.
//
// # Pipeline
//
// [Normalize] moves a file through five stages:
//
//  1. Parsed: the delimiter is detected ([DetectDelimiter]) and the text is
//     split into a header and rows. Entirely empty rows are dropped.
//  2. HeaderMapped: [MapHeaders] renames recognized columns to the canonical
//     names name, first_name, last_name, email and phone.
//  3. FieldsNormalized: names are split with [SplitName], phones are rewritten
//     by [CanonicalizePhone] into phone_number, and emails are cleaned by
//     [ValidateEmail].
//  4. Filtered: when the input had an email column, rows without a valid
//     address are dropped.
//  5. Ordered: columns are ordered first_name, last_name, email, phone_number,
//     then the remaining columns in their original order.
//
// Field normalizers are total functions. Bad names, phones or emails become
// empty strings and flow through as data; only structural problems surface as
// errors ([ParseError] from Normalize, [UnknownColumnError] from [Project]).
//
// # Export
//
// [Project] applies an [ExportSpec] to a [Table]: column selection and
// renaming, an optional constant tag column, optional deduplication by email,
// and serialization to comma-separated text with a header row.
//
// # Error Handling
//
// Technical errors from this package and its collaborators are mapped to
// user-friendly messages using [MapError]. Each category has a code for
// support reference (CSV, EXP, FILE, SES, UPL, RATE, AUTH).
package core
