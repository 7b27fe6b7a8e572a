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


// Package ai defines the keyword analysis contract used by the text stage.
//
// The pipeline depends only on KeywordAnalyzer; concrete services live in
// sub-packages so they can be swapped without touching pipeline code.
//
// # Implementation Packages
//
//   - ai/openai: keyword extraction with an OpenAI-compatible chat model
//   - ai/watson: IBM Watson Natural Language Understanding keyword analysis
//   - ai/mock: test doubles for unit testing without external services
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, watson.NewProvider, ...) return
// INTERFACE types so callers cannot couple to a concrete service.
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//
// Test constructors (mock.NewMockKeywordAnalyzer) return CONCRETE types so
// tests can inject behavior and assert on call counts.
//
//	analyzer := mock.NewMockKeywordAnalyzer()
//	analyzer.AnalyzeKeywordsFunc = ...
//	count := analyzer.CallCount()
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithBackend(ai.BackendWatson), ai.WithWatsonAPIKey(key))
//	provider, err := watson.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	keywords, err := provider.KeywordAnalyzer().AnalyzeKeywords(ctx, "The Eiffel Tower is in Paris.")
package ai
