package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/yaklabco/backlogmd/pkg/encoding"
)

func encodeBytes(t *testing.T, text string, enc transform.Transformer) []byte {
	t.Helper()
	encoded, _, err := transform.Bytes(enc, []byte(text))
	require.NoError(t, err)
	return encoded
}

func TestDecode_UTF8PassesThrough(t *testing.T) {
	t.Parallel()

	input := []byte("* 見出し\n本文")
	got, err := encoding.Decode(input, "")

	require.NoError(t, err)
	assert.Equal(t, input, got.Text)
	assert.Equal(t, "utf-8", got.Charset)
	assert.False(t, got.BOM)
}

func TestDecode_StripsUTF8BOM(t *testing.T) {
	t.Parallel()

	got, err := encoding.Decode([]byte("\xEF\xBB\xBF* Title"), "")

	require.NoError(t, err)
	assert.Equal(t, "* Title", string(got.Text))
	assert.True(t, got.BOM)
}

func TestDecode_UTF16LEWithBOM(t *testing.T) {
	t.Parallel()

	encoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	input := append([]byte{0xFF, 0xFE}, encodeBytes(t, "hi", encoder)...)

	got, err := encoding.Decode(input, "")

	require.NoError(t, err)
	assert.Equal(t, "hi", string(got.Text))
	assert.Equal(t, "utf-16le", got.Charset)
	assert.True(t, got.BOM)
}

func TestDecode_ShiftJISFallback(t *testing.T) {
	t.Parallel()

	input := encodeBytes(t, "* こんにちは", japanese.ShiftJIS.NewEncoder())

	for _, fallback := range []string{"", "shift_jis", "cp932", "auto"} {
		got, err := encoding.Decode(input, fallback)

		require.NoError(t, err, fallback)
		assert.Equal(t, "* こんにちは", string(got.Text), fallback)
		assert.Equal(t, "shift_jis", got.Charset, fallback)
	}
}

func TestDecode_EUCJP(t *testing.T) {
	t.Parallel()

	input := encodeBytes(t, "日本語", japanese.EUCJP.NewEncoder())
	got, err := encoding.Decode(input, "euc-jp")

	require.NoError(t, err)
	assert.Equal(t, "日本語", string(got.Text))
	assert.Equal(t, "euc-jp", got.Charset)
}

func TestDecode_UnknownCharset(t *testing.T) {
	t.Parallel()

	_, err := encoding.Decode([]byte{0x82, 0xA0}, "klingon")

	require.Error(t, err)
	assert.ErrorIs(t, err, encoding.ErrUnknownCharset)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	_, name, err := encoding.Lookup("Shift_JIS")
	require.NoError(t, err)
	assert.Equal(t, "shift_jis", name)

	_, name, err = encoding.Lookup("cp932")
	require.NoError(t, err)
	assert.Equal(t, "shift_jis", name)

	_, _, err = encoding.Lookup("")
	assert.ErrorIs(t, err, encoding.ErrUnknownCharset)
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, encoding.Valid("auto"))
	assert.True(t, encoding.Valid("AUTO"))
	assert.True(t, encoding.Valid("euc-jp"))
	assert.False(t, encoding.Valid("nope"))
}

func TestIsBinary(t *testing.T) {
	t.Parallel()

	assert.False(t, encoding.IsBinary(nil))
	assert.False(t, encoding.IsBinary([]byte("plain text")))
	assert.True(t, encoding.IsBinary([]byte{0x00, 0x00, 0x01, 0x00}))
}
