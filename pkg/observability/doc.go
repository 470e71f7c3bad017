/*
Package observability provides tools for monitoring the Turing machine engine.

Metrics are fed by the machine's lifecycle hooks and by the runner's results, and
exported in the Prometheus format. Chain combines several sets of hooks so that
metrics, debug logging and custom auditing can observe the same machine.
*/
package observability
