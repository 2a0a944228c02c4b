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

// Package ipetmodel emits the structural IPET constraints for a single
// program level (machine-code, bitcode, or GCFG): flow variables, exit
// edges, block conservation, entry normalization, call-site bounds and
// caller balance. A Model owns no reachability logic; the builder decides
// which functions and blocks to feed it.
package ipetmodel
