// Package metrics exposes Prometheus counters for secure storage.
//
// Collectors are registered on a caller-supplied prometheus.Registerer:
//
//	m, err := metrics.New(prometheus.DefaultRegisterer)
//	if err != nil {
//		return err
//	}
//
// Exported series (namespace "securestore"):
//   - operations_total{store,op,result}
//   - purged_records_total{store}
//   - async_write_failures_total
//   - provider_probes_total{result}
//
// All recording methods accept a nil receiver, so components can hold a nil
// *Metrics when instrumentation is not wanted.
package metrics
