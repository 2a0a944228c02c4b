// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package builder orchestrates the whole constraint-building pass: it
// drives reachability over the program model, instantiates one
// ipetmodel.Model per active level, wires bitcode and machine code through
// the relation graph, assembles the GCFG super-structure when requested,
// and replays flow facts through flowfact.Lower. It is the one package that
// knows about every other package in this module.
package builder
