// Package metrics exposes Prometheus collectors for the AMAS engine, its
// badger-backed store, and the background jobs that sweep the due-index
// and monitoring trees. Collectors are registered at package init via
// promauto against the default registry; internal/httpapi's metrics router
// mounts promhttp.Handler(), and cmd/wordforge-amasd serves that router on
// its metrics listener.
package metrics
