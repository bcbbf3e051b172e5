// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (wire-independent records) and contracts (interfaces) only,
// plus the sentinel errors every layer wraps.
package domain
