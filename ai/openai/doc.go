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


// Package openai implements keyword analysis with OpenAI-compatible chat APIs.
//
// This package implements the ai.AIProvider interface using the langchaingo
// library to talk to OpenAI or OpenAI-compatible services (such as Ollama,
// LocalAI, or vLLM). The model is asked for a JSON object listing keywords in
// order of appearance; malformed responses are repaired where possible and
// retried otherwise.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithClassifierHost("http://localhost:11434"),  // /v1 added automatically
//	    ai.WithClassifierModel("qwen2.5:3b"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	keywords, err := provider.KeywordAnalyzer().AnalyzeKeywords(ctx, "The Eiffel Tower is in Paris.")
package openai
