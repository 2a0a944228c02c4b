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

// Package refine absorbs flow facts into a per-level RefinementTable before
// any ILP variable is emitted, so that the builder never introduces
// variables for code proven unreachable. It answers two queries: whether a
// block is infeasible in a context, and which functions may be called from
// an indirect call site in a context.
package refine
