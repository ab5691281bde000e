package rag

import (
	"strings"
	"unicode/utf8"
)

const (
	paragraphJoiner = "\n\n"
	sentenceJoiner  = " "
)

// Chunk splits text into passages of at most maxSize characters, preferring
// paragraph boundaries and falling back to sentence boundaries inside
// paragraphs that are too long on their own. A sentence longer than maxSize is
// kept whole. When overlap > 0, every passage after the first is prefixed with
// the last overlap characters of the passage before it, joined by a space.
//
// Empty or whitespace-only text yields no passages.
func Chunk(text string, maxSize, overlap int) []string {
	var chunks []string
	var current string

	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
		}
	}

	for _, para := range strings.Split(text, paragraphJoiner) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if runeLen(current)+runeLen(para)+len(paragraphJoiner) <= maxSize {
			current = join(current, para, paragraphJoiner)
			continue
		}

		flush()
		if runeLen(para) <= maxSize {
			current = para
			continue
		}

		current = ""
		for _, sentence := range sentences(para) {
			if runeLen(current)+runeLen(sentence)+len(sentenceJoiner) <= maxSize {
				current = join(current, sentence, sentenceJoiner)
				continue
			}
			flush()
			current = sentence
		}
	}
	flush()

	if overlap <= 0 || len(chunks) < 2 {
		return chunks
	}

	overlapped := make([]string, len(chunks))
	overlapped[0] = chunks[0]
	for i := 1; i < len(chunks); i++ {
		overlapped[i] = tail(chunks[i-1], overlap) + sentenceJoiner + chunks[i]
	}
	return overlapped
}

// sentences splits a paragraph after every ". " and at line breaks. The period
// stays with its sentence. Blank pieces are dropped, so runs of spaces or empty
// lines between sentences never count toward a passage's size.
func sentences(para string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(para, ". ", ".\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func join(current, next, sep string) string {
	if current == "" {
		return next
	}
	return current + sep + next
}

// tail returns the last n characters of s, or s itself when shorter.
func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
