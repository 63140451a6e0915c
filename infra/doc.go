// Package infra contains technical adapters such as the Postgres source,
// notifiers and metrics exporters. These packages depend only on the
// interfaces defined in the core packages.
package infra
