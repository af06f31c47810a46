// Package migrations holds the change journal schema, applied in file-name
// order by the sqlite package.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
