// Package textutil provides the text folding shared by lexicon loading and
// normalization.
//
// Folding removes a fixed set of punctuation characters, collapses whitespace,
// lowercases with language-aware casing and strips diacritics through
// canonical decomposition, so "Médecin," and "medecin" fold to the same key.
package textutil
