// Package migrations embeds the QuestDB schema for the quote archive.
package migrations

import "embed"

// Files holds every *.up.sql migration in this directory.
//
//go:embed *.sql
var Files embed.FS
