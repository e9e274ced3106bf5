package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "virtdemo.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_ParseArgs_Returns_Defaults_When_No_Flags_Are_Given(t *testing.T) {
	t.Parallel()

	cfg, err := parseArgs(nil, &bytes.Buffer{})
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func Test_ParseArgs_Applies_File_Then_Flags_When_Both_Are_Given(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{
		// Smaller list for testing.
		"items": 50,
		"overscan": 5,
		"header": false,
		"log_level": "debug", // trailing commas are fine
	}`)

	cfg, err := parseArgs([]string{"-c", path, "--overscan", "1", "--track-end"}, &bytes.Buffer{})
	require.NoError(t, err)

	want := DefaultConfig()
	want.Items = 50
	want.Overscan = 1
	want.Header = false
	want.TrackEnd = true
	want.LogLevel = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func Test_ParseArgs_Fails_When_Config_Is_Unusable(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    func(t *testing.T) []string
		wantErr error
	}{
		{
			name:    "MissingFile",
			args:    func(t *testing.T) []string { return []string{"--config", filepath.Join(t.TempDir(), "missing.jsonc")} },
			wantErr: errConfigFileRead,
		},
		{
			name:    "UnknownField",
			args:    func(t *testing.T) []string { return []string{"--config", writeConfig(t, `{"colour": "red"}`)} },
			wantErr: errConfigInvalid,
		},
		{
			name:    "Malformed",
			args:    func(t *testing.T) []string { return []string{"--config", writeConfig(t, `{"items": `)} },
			wantErr: errConfigInvalid,
		},
		{
			name:    "ZeroEstimate",
			args:    func(*testing.T) []string { return []string{"--estimate", "0"} },
			wantErr: errConfigInvalid,
		},
		{
			name:    "NegativeItems",
			args:    func(*testing.T) []string { return []string{"--items=-1"} },
			wantErr: errConfigInvalid,
		},
		{
			name:    "StreamTooFast",
			args:    func(*testing.T) []string { return []string{"--stream", "5000"} },
			wantErr: errConfigInvalid,
		},
		{
			name:    "BadLogLevel",
			args:    func(*testing.T) []string { return []string{"--log-level", "loud"} },
			wantErr: errConfigInvalid,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseArgs(testCase.args(t), &bytes.Buffer{})
			require.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func Test_Run_Prints_Usage_When_Help_Is_Requested(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	code := run([]string{"--help"}, &out, &errOut)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Usage: virtdemo")
	assert.Contains(t, out.String(), "--overscan")
	assert.Empty(t, errOut.String())
}

func Test_EntryGenerator_Produces_Same_Entries_When_Seed_Is_Equal(t *testing.T) {
	t.Parallel()

	a := newEntryGenerator(7).generate(20)
	b := newEntryGenerator(7).generate(20)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("entries differ (-a +b):\n%s", diff)
	}

	gen := newEntryGenerator(7)
	gen.generate(3)
	next := gen.generate(1)
	assert.Equal(t, "entry-3", next[0].ID)
	assert.Equal(t, "#3", next[0].Title)
	assert.NotEmpty(t, next[0].Body)
}

func Test_RenderEntry_Builds_Row_Taller_Than_Body_When_Title_Is_Shown(t *testing.T) {
	t.Parallel()

	row := renderEntry(entry{ID: "entry-0", Title: "#0", Body: "lorem ipsum"}, 0)

	measurable, ok := row.(interface{ Height(int) int })
	require.True(t, ok)
	// Title row, one body line and the bottom padding.
	assert.Equal(t, 3, measurable.Height(40))
}
