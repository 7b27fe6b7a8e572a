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


package storage

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/storyline/core"
)

// MarshalDocument serializes a ContentDocument to its JSON state form.
// Nil sentence slices are written as [] so readers always see arrays.
func MarshalDocument(doc *core.ContentDocument) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", ErrSerializationFailed)
	}
	out := *doc
	if out.Sentences == nil {
		out.Sentences = []core.Sentence{}
	}
	sentences := make([]core.Sentence, len(out.Sentences))
	for i, s := range out.Sentences {
		if s.Keywords == nil {
			s.Keywords = []string{}
		}
		if s.Images == nil {
			s.Images = []string{}
		}
		sentences[i] = s
	}
	out.Sentences = sentences

	data, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalDocument deserializes a ContentDocument from its JSON state form.
func UnmarshalDocument(data []byte) (*core.ContentDocument, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrSerializationFailed)
	}
	var doc core.ContentDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if doc.Sentences == nil {
		doc.Sentences = []core.Sentence{}
	}
	return &doc, nil
}
