package rag

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// LoadHTML converts an HTML page into a document, stripping markup by
// converting it to markdown text first so chunking and embedding work on
// readable prose instead of tags.
func LoadHTML(title, source, html string) (Document, error) {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return Document{}, fmt.Errorf("rag: convert html: %w", err)
	}

	return NewDocument(title, source, markdown), nil
}
