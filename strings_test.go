package virtview

import (
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func Test_WrapText_Breaks_Lines_When_Text_Exceeds_Width(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{name: "Fits", text: "hello", width: 10, want: []string{"hello"}},
		{name: "SpaceAtEdge", text: "hello world", width: 5, want: []string{"hello", "world"}},
		{name: "BreakOpportunity", text: "aaa bbb", width: 5, want: []string{"aaa", "bbb"}},
		{name: "LongWord", text: "abcdefgh", width: 3, want: []string{"abc", "def", "gh"}},
		{name: "Newline", text: "a\nb", width: 10, want: []string{"a", "b"}},
		{name: "Empty", text: "", width: 10, want: []string{""}},
		{name: "Wide", text: "日本語", width: 4, want: []string{"日本", "語"}},
		{name: "NoWidth", text: "hello", width: 0, want: nil},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := wrapText(testCase.text, testCase.width)
			if diff := cmp.Diff(testCase.want, got); diff != "" {
				t.Fatalf("lines mismatch (-want +got):\n%s", diff)
			}
			for _, line := range got {
				assert.LessOrEqual(t, StringWidth(line), testCase.width)
			}
		})
	}
}

func Test_StringWidth_Counts_Cells_When_Text_Has_Wide_Clusters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, StringWidth(""))
	assert.Equal(t, 5, StringWidth("hello"))
	assert.Equal(t, 4, StringWidth("日本"))
}

func Test_Print_Truncates_When_Text_Is_Wider_Than_Box(t *testing.T) {
	t.Parallel()

	screen := newFakeScreen(20, 3)

	printed := Print(screen, "hello world", 2, 1, 5, AlignmentLeft, tcell.StyleDefault)
	assert.Equal(t, 5, printed)
	assert.Equal(t, "  hello", screen.row(1))

	printed = Print(screen, "abc", 0, 2, 9, AlignmentRight, tcell.StyleDefault)
	assert.Equal(t, 3, printed)
	assert.Equal(t, "      abc", screen.row(2))

	assert.Equal(t, 0, Print(screen, "abc", 0, 5, 9, AlignmentLeft, tcell.StyleDefault))
}
