// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CardSeparator separates the front and back fields of a serialized card.
const CardSeparator = "\t"

// Card is one question/answer flashcard.
type Card struct {
	Front string `json:"front" yaml:"front"`
	Back  string `json:"back" yaml:"back"`
}

// String serializes the card as an Anki tab-separated record.
func (c Card) String() string {
	return c.Front + CardSeparator + c.Back
}

// Note is a unit of source text read from disk.
type Note struct {
	// Path is the file the note was read from.
	Path string `json:"path" yaml:"path"`

	// Content is the raw note text.
	Content string `json:"-" yaml:"-"`
}
