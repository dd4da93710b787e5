// Package cryxml reads the XML documents found in the game archive.
//
// Definition files come either as plain XML text or in the CryXmlB binary
// layout: a signature, a header of table offsets and counts, then node,
// attribute, child-index and string tables. Decode accepts both and returns
// the same Node tree.
package cryxml
