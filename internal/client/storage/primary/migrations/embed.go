// Package migrations embeds the primary store schema for goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
