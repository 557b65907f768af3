// Package render is the document model normalizer: it resolves a CV document,
// a template and a section order into ordered HTML fragments, and assembles
// fragments into a standalone page.
//
// # Strategies
//
// Each template maps to one of two strategies:
//
//	classic, modern                         pre-built renderer (own markup)
//	minimal, professional, creative, elegant  generic renderer + style table
//
// Both strategies execute one named block per section kind. Unknown tokens
// in the section order produce nothing; known sections without data render
// an explicit empty-state message.
//
// Normalization is a pure function of its inputs: no IDs are generated and
// no input is mutated, so identical inputs always produce identical output.
package render
