// Package migrations esquema SQL embebido en los binarios.
package migrations

import "embed"

// Files scripts NNNN_*.sql en orden lexicográfico.
//
//go:embed *.sql
var Files embed.FS
