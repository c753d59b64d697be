// Package amb compiles a tree of interlinked Markdown documents into a
// single AMB1 archive: a retro hypertext book format with an 8.3 filename
// directory, fixed-size article bodies (AMA), optional codepage mapping
// (UNICODE.MAP), and an optional full-text word index (DICT.IDX).
//
// # File Format Overview
//
// An AMB1 file consists of:
//   - A 6-byte fixed header: magic "AMB1" followed by a little-endian
//     entry count
//   - A directory of 20-byte entries (name, offset, length, checksum)
//   - The concatenated payloads in directory order: optional TITLE,
//     INDEX.AMA, the remaining AMA articles sorted ascending by filename,
//     optional UNICODE.MAP, optional DICT.IDX
//
// # Basic Usage
//
// To compile a Markdown tree into an archive:
//
//	data, err := amb.BuildBook(rootPath, mdrender.Render, mdrender.ParseFrontMatter,
//		amb.WithTitle("My Book"), amb.WithCodepage("cp852"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.WriteFile("book.amb", data, 0o644)
//
// # Scope
//
// This package implements article discovery, splitting, codepage
// encoding, word indexing, and archive assembly. It deliberately treats
// the Markdown-to-AMA textual renderer and front-matter parsing as
// external collaborators, consumed through the Renderer and
// FrontMatterParser function types; default implementations live in the
// sibling mdrender package.
package amb
