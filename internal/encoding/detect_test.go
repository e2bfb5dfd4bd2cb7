package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneymanager/internal/encoding"
)

func readAll(t *testing.T, in []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(in))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "category,description\ncafé,Crème brûlée\n"
	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestNewUTF8Reader_UTF8BOMStripped(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("type,amount\n")...)
	assert.Equal(t, "type,amount\n", readAll(t, input))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// "café;Ação\n" with é = 0xE9, ç = 0xE7, ã = 0xE3.
	input := []byte{'c', 'a', 'f', 0xE9, ';', 'A', 0xE7, 0xE3, 'o', '\n'}
	assert.Equal(t, "café;Ação\n", readAll(t, input))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	// BOM followed by "ok" in little endian.
	input := []byte{0xFF, 0xFE, 'o', 0x00, 'k', 0x00}
	assert.Equal(t, "ok", readAll(t, input))
}

func TestNewUTF8Reader_LongInput(t *testing.T) {
	input := strings.Repeat("food,Épicerie du coin\n", 500)
	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestDetect(t *testing.T) {
	assert.Equal(t, encoding.UTF8, encoding.Detect([]byte("plain ascii")))
	assert.Equal(t, encoding.UTF8, encoding.Detect([]byte{0xEF, 0xBB, 0xBF, 'a'}))
	assert.Equal(t, encoding.UTF16BE, encoding.Detect([]byte{0xFE, 0xFF, 0x00, 'a'}))

	// "é" cut after its first byte still reads as UTF-8.
	assert.Equal(t, encoding.UTF8, encoding.Detect([]byte{'a', 'b', 0xC3}))
}
