// Package tablesnap captures the first HTML table of a web page as a CSV
// artifact on disk and keeps a sorted catalog of saved artifacts for preview.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, fs/, sqlite/).
package tablesnap
