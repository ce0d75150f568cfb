// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "github.com/prometheus/client_golang/prometheus"

// collector exposes an Allocator's running counters to Prometheus. It
// is purely observational: nothing it reads ever feeds back into an
// allocation decision, matching the debugging/telemetry boundary the
// package draws around the core allocator.
type collector struct {
	a *Allocator
}

var (
	allocsDesc = prometheus.NewDesc(
		"memory_allocator_live_allocations",
		"Number of outstanding allocations not yet freed.",
		nil, nil,
	)
	mmapsDesc = prometheus.NewDesc(
		"memory_allocator_live_mappings",
		"Number of outstanding anonymous mappings not yet unmapped.",
		nil, nil,
	)
	bytesDesc = prometheus.NewDesc(
		"memory_allocator_bytes_obtained",
		"Total bytes currently obtained from the platform gateway.",
		nil, nil,
	)
	blocksDesc = prometheus.NewDesc(
		"memory_allocator_blocks",
		"Number of registry blocks, partitioned by state.",
		[]string{"state"}, nil,
	)
)

// Collector returns a prometheus.Collector reporting a's current
// bookkeeping counters. Registering it with a registry that is scraped
// concurrently with mutator use is the caller's responsibility to
// synchronize, the same as any other use of a from more than one
// goroutine.
func (a *Allocator) Collector() prometheus.Collector {
	return &collector{a: a}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- allocsDesc
	ch <- mmapsDesc
	ch <- bytesDesc
	ch <- blocksDesc
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	a := c.a
	ch <- prometheus.MustNewConstMetric(allocsDesc, prometheus.GaugeValue, float64(a.allocs))
	ch <- prometheus.MustNewConstMetric(mmapsDesc, prometheus.GaugeValue, float64(a.mmaps))
	ch <- prometheus.MustNewConstMetric(bytesDesc, prometheus.GaugeValue, float64(a.bytes))

	counts := map[blockState]int{}
	if a.anchor != nil {
		cur := a.anchor
		for {
			counts[cur.state]++
			cur = cur.next
			if cur == a.anchor {
				break
			}
		}
	}
	for _, st := range []blockState{stateAllocated, stateFree, stateMapped} {
		ch <- prometheus.MustNewConstMetric(blocksDesc, prometheus.GaugeValue, float64(counts[st]), st.String())
	}
}
