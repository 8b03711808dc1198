// Package metrics records Prometheus counters and histograms for survey
// requests and generations on a private registry.
package metrics
