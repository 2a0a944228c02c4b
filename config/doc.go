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

/*
Package config holds the options the constraint builder itself branches on,
and the leveled logger it reports through.

Unlike a tool-facing configuration (out of scope for this module), every
field of Options has a direct effect on which constraints Build emits: see
the field comments for what each one controls.

Load a configuration either with NewDefault for an embedding caller that
wants to set fields directly, or with Load(filename) to read one from a YAML
file:

	enable-bitcode: true
	predicated-calls: true
	log-level: 4
*/
package config
