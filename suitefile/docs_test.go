package suitefile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirstParagraph(t *testing.T) {
	t.Run("skips headings", func(t *testing.T) {
		got := FirstParagraph([]byte("# Title\n\nThe summary line.\n\nSecond paragraph.\n"))
		require.Equal(t, "The summary line.", got)
	})

	t.Run("collapses soft line breaks", func(t *testing.T) {
		got := FirstParagraph([]byte("One line\nand another.\n"))
		require.Equal(t, "One line and another.", got)
	})

	t.Run("skips leading code blocks", func(t *testing.T) {
		got := FirstParagraph([]byte("```\ncode\n```\n\nProse afterwards.\n"))
		require.Equal(t, "Prose afterwards.", got)
	})

	t.Run("ignores paragraphs inside lists", func(t *testing.T) {
		got := FirstParagraph([]byte("- item one\n- item two\n\nTop-level prose.\n"))
		require.Equal(t, "Top-level prose.", got)
	})

	t.Run("empty document", func(t *testing.T) {
		require.Equal(t, "", FirstParagraph([]byte("# Only a heading\n")))
		require.Equal(t, "", FirstParagraph(nil))
	})
}
