// Package store implements the schema-driven record store backing the
// per-course datasets (students, session dates, attendance, exams).
//
// Each logical dataset is one SQLite file holding one primary table whose
// schema is declared at creation time through the catalog. The store exposes
// structured query construction validated against the live schema,
// deduplicating bulk insert, lazy row materialization, filtered single-field
// update and additive column evolution. No delete operation is exposed.
//
// Every operation is a self-contained unit of work; multi-step sequences
// (check-then-insert, check-then-create-then-update) are not transactional
// across calls. The store targets single-process, single-operator batch runs
// at classroom scale.
package store
