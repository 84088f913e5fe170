// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpudispatch implements the CPU-target dispatch core of a
// multi-version ahead-of-time compiled image: parsing a `-C target`
// style option string, scoring the declared targets against the host
// CPU's feature set, and picking which pre-compiled function-variant
// set a sysimg should run.
//
// The package is organized leaves first:
//
//   - FeatureSet is a fixed-width bitset with the usual boolean algebra
//     plus feature-dependency closure.
//   - Per-architecture registries (sub-packages arch/amd64, arch/arm64,
//     arch/fallback) hold the static CPU/feature/dependency tables and
//     know how to probe the host.
//   - ParseTargets implements the target-string grammar.
//   - Select scores parsed targets against a host probe and picks one.
//   - Sub-package sysimg walks the embedded dispatch blobs and performs
//     the GOT-slot relocation for the chosen target.
//
// Everything in this package runs once, single-threaded, at process
// startup, before any other goroutine is created. Callers are expected
// to treat the returned values as immutable for the remaining lifetime
// of the process.
package cpudispatch
