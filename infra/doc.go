// Package infra groups the adapters around the admission core: structured
// logging, metrics sinks, placement stores and the MQTT change notifier.
package infra
