// internal/common/tabular/table_test.go
package tabular

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"recruit-analytics/internal/common/errors"
)

const sample = "姓,名,説明会予約日\n山田,太郎,2025/11/4\n佐藤,花子,11月5日\n"

func encode(t *testing.T, enc encoding.Encoding, s string) []byte {
	t.Helper()
	out, _, err := transform.Bytes(enc.NewEncoder(), []byte(s))
	require.NoError(t, err)
	return out
}

func TestParse_Encodings(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		encoding string
	}{
		{"utf-8", []byte(sample), EncodingUTF8},
		{"utf-8 with bom", append([]byte{0xEF, 0xBB, 0xBF}, sample...), EncodingUTF8BOM},
		{"utf-16le", encode(t, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), sample), EncodingUTF16LE},
		{"utf-16be", encode(t, unicode.UTF16(unicode.BigEndian, unicode.UseBOM), sample), EncodingUTF16BE},
		{"shift_jis", encode(t, japanese.ShiftJIS, sample), EncodingSJIS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Parse(tt.data)
			require.NoError(t, err)

			assert.Equal(t, tt.encoding, table.Encoding)
			assert.Equal(t, []string{"姓", "名", "説明会予約日"}, table.Headers)
			require.Len(t, table.Rows, 2)
			assert.Equal(t, []string{"佐藤", "花子", "11月5日"}, table.Rows[1])
			assert.Equal(t, 0, table.Column("姓"))
			assert.Equal(t, 2, table.Column(" 説明会予約日 "))
		})
	}
}

func TestParse_RaggedRows(t *testing.T) {
	table, err := ParseString("a,b,c\n1,2\n1,2,3,4\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", ""}, table.Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, table.Rows[1])
	require.Len(t, table.Warnings, 2)
	assert.Equal(t, 2, table.Warnings[0].Row)
	assert.Equal(t, 3, table.Warnings[1].Row)
	assert.Equal(t, 2, table.RowNumber(0))
	assert.Equal(t, 3, table.RowNumber(1))
}

func TestParse_HeaderOnlyIsEmptyRoster(t *testing.T) {
	table, err := ParseString("姓,名\n")
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestParse_DuplicateHeaders(t *testing.T) {
	table, err := ParseString("a,b,a\n1,2,3\n")
	require.NoError(t, err)

	assert.Equal(t, 0, table.Column("a"))
	require.Len(t, table.Warnings, 1)
	assert.Contains(t, table.Warnings[0].Message, "duplicate header")
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace only", "  \n\n"},
		{"blank header", ",,\n1,2,3\n"},
		{"unterminated quote", "姓,名\n\"山田,太郎\n鈴木,一郎\n佐藤,花子\n"},
		{"stray quote", "姓,名\n山\"田,太郎\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseString(tt.data)
			assert.Nil(t, table)
			assert.True(t, errors.HasCode(err, errors.ErrCodeMalformedRoster))
		})
	}
}

func TestParse_QuotedMultilineCell(t *testing.T) {
	table, err := ParseString("姓,備考\n山田,\"電話済\n再連絡待ち\"\n鈴木,\n")
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "電話済\n再連絡待ち", table.Rows[0][1])
	assert.Equal(t, 2, table.RowNumber(0))
	assert.Equal(t, 4, table.RowNumber(1))
}

func TestNew_PadsRows(t *testing.T) {
	table := New([]string{"a", "b"}, [][]string{{"1"}})

	assert.Equal(t, []string{"1", ""}, table.Rows[0])
	assert.Equal(t, 1, table.Column("b"))
	assert.Equal(t, -1, table.Column("c"))
	assert.False(t, table.HasColumn(""))
}

func TestParseBase64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("姓,名\n山田,太郎\n"))

	table, err := ParseBase64(encoded)
	require.NoError(t, err)
	assert.Equal(t, []string{"姓", "名"}, table.Headers)
	assert.Len(t, table.Rows, 1)

	_, err = ParseBase64("not base64!")
	assert.True(t, errors.HasCode(err, errors.ErrCodeMalformedRoster))
}
