package output_test

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/ethkit/internal/output"
)

func TestFormatter_JSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	f := output.NewFormatter(output.FormatJSON, &buf)

	require.NoError(t, f.Print(map[string]string{"selector": "0xa9059cbb"}))

	var result map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "0xa9059cbb", result["selector"])
	assert.Equal(t, output.FormatJSON, f.Format())
	assert.Same(t, &buf, f.Writer())
}

func TestFormatter_Text(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"string", "hello world", "hello world\n"},
		{"stringer", stringer("0xabc"), "0xabc\n"},
		{"other", 42, "42\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, output.NewFormatter(output.FormatText, &buf).Print(tc.value))
			assert.Equal(t, tc.expected, buf.String())
		})
	}
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestFormatter_Emit(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatText, &text).Emit("0x1234", map[string]string{"data": "0x1234"}))
	require.NoError(t, output.NewFormatter(output.FormatJSON, &js).Emit("0x1234", map[string]string{"data": "0x1234"}))

	assert.Equal(t, "0x1234\n", text.String())
	assert.JSONEq(t, `{"data":"0x1234"}`, js.String())
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected output.Format
	}{
		{"json", output.FormatJSON},
		{"JSON", output.FormatJSON},
		{" text ", output.FormatText},
		{"auto", output.FormatAuto},
		{"", output.FormatAuto},
		{"xml", output.FormatAuto},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, output.ParseFormat(tt.input))
		})
	}
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, output.FormatText, output.DetectFormat(&buf, output.FormatText))
	assert.Equal(t, output.FormatJSON, output.DetectFormat(&buf, output.FormatAuto))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, output.FormatJSON, output.DetectFormat(f, output.FormatAuto))
}

func TestTable(t *testing.T) {
	t.Parallel()

	tbl := output.NewTable("FIELD", "VALUE")
	tbl.AddRow("type", "dynamic")
	tbl.AddRow("nonce", "7")
	assert.Equal(t, "FIELD  VALUE\n-----  -------\ntype   dynamic\nnonce  7\n", tbl.String())
}

func TestTable_NoHeaderRaggedRows(t *testing.T) {
	t.Parallel()

	tbl := output.NewTable()
	tbl.AddRow("a", "bb", "ccc")
	tbl.AddRow("dddd")
	assert.Equal(t, "a     bb  ccc\ndddd\n", tbl.String())
}

func TestTable_UnicodeWidth(t *testing.T) {
	t.Parallel()

	tbl := output.NewTable()
	tbl.AddRow("héllo", "x")
	tbl.AddRow("a", "y")
	assert.Equal(t, "héllo  x\na      y\n", tbl.String())
}

func TestTable_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, output.NewTable().String())
}

func TestMessages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	output.Warnf(&buf, "private key passed on the command line")
	assert.Equal(t, "warning: private key passed on the command line\n", buf.String())
}
