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


package core

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a ContentDocument before the text stage runs.
//
// Validation rules:
//   - SearchTerm must not be empty or whitespace
//   - MaximumSentences must not be negative
//
// NOT validated (populated by the pipeline):
//   - SourceContentOriginal, SourceContentSanitized
//   - Sentences
func ValidateDocument(doc *ContentDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if strings.TrimSpace(doc.SearchTerm) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySearchTerm)
	}

	if doc.MaximumSentences < 0 {
		return fmt.Errorf("%w: %w (%d)", ErrInvalidDocument, ErrNegativeMaximum, doc.MaximumSentences)
	}

	return nil
}
