/* Copyright 2024 The Freight Authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package core provides the core gear for running Freight programs.
//
// A Freight program is plain text arranged on a 2D grid.  Bracketed
// markers like "[start]" place stations, and the geometry of the grid --
// not textual order -- decides how stations are wired together.  Values
// (Pallets) move between stations through single-slot ports (bays) until
// a terminal station fires.
//
// The pipeline has three stages.  DiscoverStations scans the source lines
// for station markers, resolves each identifier against a Namespace, and
// checks that exactly one entry station exists.  LinkStations computes
// every station's geometric neighbors under that station's rotation
// modifiers and wires output bays to the neighbors' input bays.  Run
// drives the resulting graph with a deterministic round-based scheduler
// until a terminal station fires, the graph deadlocks, or the round limit
// is reached.
//
// The set of recognized station behaviors is not defined here.  Callers
// supply a Namespace; see package stations for the standard catalogue.
package core
