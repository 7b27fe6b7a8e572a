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
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrInvalidDocument indicates a ContentDocument failed validation.
	ErrInvalidDocument = errors.New("invalid content document")

	// ErrEmptySearchTerm indicates the SearchTerm field is empty.
	ErrEmptySearchTerm = errors.New("search term cannot be empty")

	// ErrNegativeMaximum indicates MaximumSentences is below zero.
	ErrNegativeMaximum = errors.New("maximum sentences cannot be negative")
)

// Collaborator error kinds. The typed errors below match these with errors.Is.
var (
	// ErrRetrieval marks a failed source fetch. Fatal to a pipeline run.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrAnalysis marks a failed keyword analysis for one sentence. Never fatal.
	ErrAnalysis = errors.New("keyword analysis failed")

	// ErrPersistence marks a failed state load or save. Fatal to a pipeline run.
	ErrPersistence = errors.New("persistence failed")
)

// RetrievalError reports that no source content could be fetched for a term.
type RetrievalError struct {
	SearchTerm string
	Err        error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve %q: %v", e.SearchTerm, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

func (e *RetrievalError) Is(target error) bool { return target == ErrRetrieval }

// AnalysisError reports a keyword analysis failure.
// Index is the sentence position, or -1 when the text is not part of a document.
type AnalysisError struct {
	Index int
	Text  string
	Err   error
}

func (e *AnalysisError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("analyze keywords: %v", e.Err)
	}
	return fmt.Sprintf("analyze keywords of sentence %d: %v", e.Index, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

func (e *AnalysisError) Is(target error) bool { return target == ErrAnalysis }

// PersistenceError reports a state store failure. Op is "load" or "save".
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s document: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
