// # Comma: Header-Aware CSV Rows and In-Place Rewrites for Go
//
// Comma wraps a streaming RFC 4180 reader and writer with a row type that knows its header,
// converts fields through per-column parse and serialize hooks, and a Session that can rewrite
// a file while it is still being read.
//
// # Features
//
// - `Row` with access by index or header name, slicing, `List` and `Map` views.
// - Column transforms keyed by position (`ByIndex`) or by header name (`ByName`).
// - `Session` over a path (`Open`) or an open stream (`FromReader`, `FromWriter`, `FromFile`).
// - In-place edits read a snapshot first, so writes never clobber bytes not yet read.
// - Timestamped backups via `MakeBackup`, with collision-free names.
// - Dialect sniffing, explicit text encodings and YAML/TOML configuration via `LoadConfig`.
//
// # Getting Started
//
//	s, err := comma.Open("prices.csv", comma.ReadWrite, comma.WithBackup(""))
//	if err != nil {
//		return err
//	}
//	for row, err := range s.Rows() {
//		...
//	}
//	return s.Close()
package comma
