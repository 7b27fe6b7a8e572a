// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import "errors"

var (
	// ErrStateStoreRequired is returned when a state store is not provided.
	ErrStateStoreRequired = errors.New("state store required")

	// ErrFetcherRequired is returned when a source fetcher is not provided.
	ErrFetcherRequired = errors.New("source fetcher required")

	// ErrAnalyzerRequired is returned when a keyword analyzer is not provided.
	ErrAnalyzerRequired = errors.New("keyword analyzer required")

	// ErrFactoryRequired is returned when a batch has no pipeline factory.
	ErrFactoryRequired = errors.New("pipeline factory required")

	// ErrEnrichmentInterrupted is reported when the context ends before every
	// sentence has been enriched.
	ErrEnrichmentInterrupted = errors.New("keyword enrichment interrupted")
)
