package config

import (
	"path/filepath"
	"reflect"
	"testing"

	errs "github.com/matzehuels/pairrank/pkg/errors"
)

func TestLoadItems(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantName string
		want     []string
	}{
		{
			name:     "toml",
			file:     "fruit.toml",
			content:  "name = \"fruit\"\nitems = [\"apple\", \"pear\", \"plum\"]\n",
			wantName: "fruit",
			want:     []string{"apple", "pear", "plum"},
		},
		{
			name:     "text",
			file:     "movies.txt",
			content:  "# watched in 2024\nAlien\n\n  Heat  \nUp\n",
			wantName: "movies",
			want:     []string{"Alien", "Heat", "Up"},
		},
		{
			name:    "toml without name",
			file:    "list.toml",
			content: "items = [\"a\", \"b\"]",
			want:    []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadItems(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadItems() error: %v", err)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if !reflect.DeepEqual(got.Items, tt.want) {
				t.Errorf("Items = %q, want %q", got.Items, tt.want)
			}
		})
	}
}

func TestLoadItems_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errs.Code
	}{
		{"too few", "one.txt", "solo\n", errs.ErrCodeInvalidInput},
		{"duplicate", "dup.txt", "a\nb\na\n", errs.ErrCodeDuplicateItem},
		{"bad toml", "bad.toml", "items = [", errs.ErrCodeInvalidInput},
		{"wrong type", "type.toml", "items = 3", errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadItems(writeFile(t, tt.file, tt.content))
			if !errs.Is(err, tt.code) {
				t.Errorf("LoadItems() error = %v, want %s", err, tt.code)
			}
		})
	}

	_, err := LoadItems(filepath.Join(t.TempDir(), "missing.txt"))
	if !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("LoadItems(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestLoadItems_Examples(t *testing.T) {
	for _, name := range []string{"fruit.toml", "languages.txt"} {
		list, err := LoadItems(filepath.Join("..", "..", "examples", name))
		if err != nil {
			t.Errorf("LoadItems(%s) error: %v", name, err)
			continue
		}
		if len(list.Items) != 7 {
			t.Errorf("LoadItems(%s) = %d items, want 7", name, len(list.Items))
		}
	}
}
