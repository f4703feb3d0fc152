package charset

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name         string
		input        []byte
		wantText     string
		wantEncoding string
	}{
		{
			name:         "plain utf-8",
			input:        []byte("nome,email\nJoão,j@x.com"),
			wantText:     "nome,email\nJoão,j@x.com",
			wantEncoding: UTF8,
		},
		{
			name:         "utf-8 with byte order mark",
			input:        append([]byte{0xEF, 0xBB, 0xBF}, []byte("nome;email")...),
			wantText:     "nome;email",
			wantEncoding: UTF8BOM,
		},
		{
			name:         "only byte order mark",
			input:        []byte{0xEF, 0xBB, 0xBF},
			wantText:     "",
			wantEncoding: UTF8BOM,
		},
		{
			name:         "windows-1252 accents and quotes",
			input:        []byte("Jo\xe3o \x93Z\xe9\x94"),
			wantText:     "João “Zé”",
			wantEncoding: Windows1252,
		},
		{
			name:         "byte order mark before latin text",
			input:        []byte("\xEF\xBB\xBFS\xe3o Paulo"),
			wantText:     "São Paulo",
			wantEncoding: Windows1252,
		},
		{
			name:         "byte undefined in windows-1252 falls back to iso-8859-1",
			input:        []byte("a\x81\xe7"),
			wantText:     "a\u0081ç",
			wantEncoding: ISO88591,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, enc, err := Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if text != tt.wantText {
				t.Errorf("Decode() text = %q, want %q", text, tt.wantText)
			}
			if enc != tt.wantEncoding {
				t.Errorf("Decode() encoding = %q, want %q", enc, tt.wantEncoding)
			}
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	_, _, err := Decode(nil)
	if !errors.Is(err, ErrUndecodable) {
		t.Fatalf("Decode(nil) error = %v, want ErrUndecodable", err)
	}
	if want := "encoding error: empty input"; err.Error() != want {
		t.Errorf("Decode(nil) error = %q, want %q", err.Error(), want)
	}
}

func TestReadAll(t *testing.T) {
	t.Run("under limit", func(t *testing.T) {
		data, err := ReadAll(strings.NewReader("abc"), 3)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if string(data) != "abc" {
			t.Errorf("ReadAll() = %q, want %q", data, "abc")
		}
	})

	t.Run("over limit", func(t *testing.T) {
		_, err := ReadAll(bytes.NewReader(make([]byte, 10)), 9)
		if !errors.Is(err, ErrTooLarge) {
			t.Errorf("ReadAll() error = %v, want ErrTooLarge", err)
		}
	})

	t.Run("no limit", func(t *testing.T) {
		data, err := ReadAll(bytes.NewReader(make([]byte, 1<<16)), 0)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if len(data) != 1<<16 {
			t.Errorf("len(ReadAll()) = %d, want %d", len(data), 1<<16)
		}
	})
}

func TestReadText(t *testing.T) {
	text, enc, err := ReadText(strings.NewReader("Nome\nAndr\xe9"), 0)
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if text != "Nome\nAndré" || enc != Windows1252 {
		t.Errorf("ReadText() = (%q, %q), want (%q, %q)", text, enc, "Nome\nAndré", Windows1252)
	}
}
