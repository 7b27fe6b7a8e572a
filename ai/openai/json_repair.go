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


package openai

import "regexp"

// bareKey matches a keyword response key that lost its opening quote,
// as in `{text":"Paris"}` or `, relevance":0.8`.
var bareKey = regexp.MustCompile(`([{,]\s*)(keywords|text|relevance)":`)

// trailingComma matches a comma left before the end of the keyword list or
// of a keyword object.
var trailingComma = regexp.MustCompile(`,(\s*[\]}])`)

// repairJSON fixes the formatting slips small models make in keyword
// responses. Only the keys of the keyword response get quoted.
func repairJSON(s string) string {
	s = bareKey.ReplaceAllString(s, `$1"$2":`)
	return trailingComma.ReplaceAllString(s, `$1`)
}
