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


// Package storage provides the persistence layer for content documents.
//
// The text stage talks to storage only through StateStore, which loads and
// saves the single document a pipeline run owns. Backends decide where that
// document lives:
//
//   - storage/badger keeps many documents in one BadgerDB, keyed by
//     core.DocumentID, and hands out a StateStore per document with Slot.
//   - storage/file keeps one document in a JSON file.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo := badger.NewDocumentRepository(backend)
//	store := repo.Slot(core.DocumentID("Cat"))
//
// # Thread Safety
//
// All implementations must be safe for concurrent use. A single StateStore
// is used by one pipeline run at a time.
package storage
