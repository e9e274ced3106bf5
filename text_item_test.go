package virtview

import (
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TextItem_Height_Follows_Width_When_Text_Wraps(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		text  string
		width int
		want  int
	}{
		{name: "OneLine", text: "hello world", width: 11, want: 1},
		{name: "TwoLines", text: "hello world", width: 5, want: 2},
		{name: "Empty", text: "", width: 5, want: 1},
		{name: "NoWidth", text: "hello", width: 0, want: 1},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			item := NewTextItem(testCase.text)
			assert.Equal(t, testCase.want, item.Height(testCase.width))
		})
	}
}

func Test_TextItem_Height_Includes_Chrome_When_Title_And_Padding_Are_Set(t *testing.T) {
	t.Parallel()

	item := NewTextItem("hello world")
	item.SetTitle("#1").SetBorders(BordersLeft).SetBorderPadding(0, 1, 1, 0)

	// Inner width is 7 - 1 border - 1 padding = 5, so two lines plus the
	// title row and the bottom padding.
	assert.Equal(t, 4, item.Height(7))
}

func Test_TextItem_Recomputes_Height_When_Text_Changes(t *testing.T) {
	t.Parallel()

	item := NewTextItem("hello")
	require.Equal(t, 1, item.Height(5))

	item.MarkClean()
	item.SetText("hello world")
	assert.True(t, item.IsDirty())
	assert.Equal(t, 2, item.Height(5))
}

func Test_TextItem_Draws_Wrapped_Lines_When_Selected(t *testing.T) {
	t.Parallel()

	screen := newFakeScreen(5, 3)
	selected := tcell.StyleDefault.Reverse(true)

	item := NewTextItem("hello world").SetSelectedStyle(selected)
	item.SetSelected(true)
	require.True(t, item.IsSelected())

	item.SetRect(0, 0, 5, 3)
	item.Draw(screen)

	assert.Equal(t, []string{"hello", "world", ""}, screen.rows())
	assert.Equal(t, selected, screen.styles[2][4])
	assert.False(t, item.IsDirty())
}
