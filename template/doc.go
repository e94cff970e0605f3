// Package template stores named report templates and renders them with the
// expression language of package lang.
//
// A [Template] is persisted by a [Repository]. Three implementations exist:
// [Memory] for tests and one-shot use, [Dir] which keeps one YAML document
// per template, and [SQLite] which keeps a single database file. [Open]
// selects one by [StoreKind].
//
// [Service] enforces the naming rules (names are trimmed, required, and at
// most [MaxNameLength] characters), assigns ids and creation times, resolves
// user references with [Service.Find], and renders bodies with
// [Service.Render]. [Export] writes the JSON document used to move a
// template between installations.
package template
