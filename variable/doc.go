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

// Package variable defines the canonical identity of every ILP decision
// variable the core can introduce: CFG edges, synthetic exit edges, call
// edges and relation-graph edges. An EdgeId is a value type so that two
// occurrences naming the same flow variable compare equal and hash
// identically, regardless of which component constructed them.
package variable
