// Package metrics exposes network activity as Prometheus collectors.
//
// A Collector is a network.Observer: pass it to network.WithObserver and it
// counts applied and rejected commands, peeks, peeked items, lookup effort and
// finalize outcomes. Collectors register on a caller supplied registry so
// several networks (or tests) never collide on the default one.
package metrics
