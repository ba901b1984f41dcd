package db

import _ "embed"

//go:embed schema.sql
var Schema string

// Drop removes every table in reverse dependency order, used together
// with Schema for a full-rebuild run.
//
//go:embed drop.sql
var Drop string
