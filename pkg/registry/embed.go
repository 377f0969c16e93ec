package registry

import _ "embed"

// datasetSQL is the embedded default dataset, applied to an in-memory
// database when no explicit path is configured.
//
//go:embed dataset.sql
var datasetSQL string
