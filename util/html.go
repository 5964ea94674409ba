package util

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// PlainText returns the text content of an HTML fragment, with whitespace collapsed.
// Content of script and style elements is skipped.
func PlainText(input io.Reader) string {

	tokenizer := html.NewTokenizerFragment(input, "body")

	var words []string
	var skip = 0

	for {

		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break // assuming tokenizer.Err() == io.EOF
		}

		switch tt {
		case html.StartTagToken:
			if tagName, _ := tokenizer.TagName(); isRawTextTag(string(tagName)) {
				skip++
			}
		case html.EndTagToken:
			if tagName, _ := tokenizer.TagName(); isRawTextTag(string(tagName)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				words = append(words, strings.Fields(string(tokenizer.Text()))...)
			}
		}
	}

	return strings.Join(words, " ")
}

func isRawTextTag(tagName string) bool {
	return tagName == "script" || tagName == "style"
}

// IsBlankHTML returns true if the fragment has neither text nor embedded media, like "<p></p>" or "<br>".
func IsBlankHTML(s string) bool {

	if strings.TrimSpace(s) == "" {
		return true
	}

	tokenizer := html.NewTokenizerFragment(strings.NewReader(s), "body")

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return true
		}
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tagName, _ := tokenizer.TagName()
			switch string(tagName) {
			case "img", "video", "audio", "iframe":
				return false
			}
		case html.TextToken:
			if strings.TrimSpace(html.UnescapeString(string(tokenizer.Text()))) != "" {
				return false
			}
		}
	}
}
