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


// Package registry provides a client for the Australian Business Names
// Register, published on data.gov.au through the CKAN datastore API.
//
// The Client wraps the datastore_search, datastore_search_sql and
// resource_show actions with retry and exponential backoff, and converts
// raw datastore rows into core.BusinessName records. Well-known register
// columns (BN_NAME, BN_STATUS, BN_STATE and the date columns) map to
// dedicated fields; anything else is preserved untouched in Fields.
package registry
