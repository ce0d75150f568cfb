// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command allocbench drives a memory.Allocator through a synthetic
// allocate/free/resize workload and reports the resulting bookkeeping
// counters. It exists to exercise the allocator manually; it is not
// part of the allocator's public contract.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	memory "github.com/emanuelstiuj/Memory-Allocator"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		workload   string
		iterations int
		maxSize    int
		seed       int64
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "allocbench",
		Short: "Exercise a memory.Allocator with a synthetic workload",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				l := logrus.New()
				l.SetLevel(logrus.DebugLevel)
				memory.SetLogger(l)
			}
			return runWorkload(workload, iterations, maxSize, seed)
		},
	}

	cmd.Flags().StringVar(&workload, "workload", "churn", "workload to run: churn or grow")
	cmd.Flags().IntVar(&iterations, "iterations", 10000, "number of allocation rounds")
	cmd.Flags().IntVar(&maxSize, "max-size", 4096, "maximum request size in bytes")
	cmd.Flags().Int64Var(&seed, "seed", 1, "PRNG seed")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "emit per-operation debug trace")

	return cmd
}

func runWorkload(workload string, iterations, maxSize int, seed int64) error {
	var a memory.Allocator
	rng := rand.New(rand.NewSource(seed))
	var live [][]byte

	for i := 0; i < iterations; i++ {
		switch workload {
		case "churn":
			size := rng.Intn(maxSize) + 1
			b := a.Allocate(size)
			live = append(live, b)
			if len(live) > 64 {
				victim := rng.Intn(len(live))
				a.Free(live[victim])
				live[victim] = live[len(live)-1]
				live = live[:len(live)-1]
			}
		case "grow":
			size := rng.Intn(maxSize) + 1
			b := a.AllocateZeroed(1, size)
			live = append(live, a.Resize(b, size*2))
		default:
			return fmt.Errorf("unknown workload %q", workload)
		}
	}

	for _, b := range live {
		a.Free(b)
	}

	allocs, mmaps, bytes := a.Stats()
	fmt.Printf("workload=%s iterations=%d live_allocs=%d live_mmaps=%d bytes_from_platform=%d\n",
		workload, iterations, allocs, mmaps, bytes)
	return nil
}
