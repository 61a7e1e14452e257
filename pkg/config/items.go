package config

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/pairrank/pkg/errors"
)

// ItemList is the content of an items file.
type ItemList struct {
	Name  string   `toml:"name"`
	Items []string `toml:"items"`
}

// LoadItems reads the items to rank from path.
//
// Files ending in .txt hold one item per line; blank lines and lines
// starting with '#' are ignored and the name is the file's base name.
// Anything else is parsed as TOML:
//
//	name = "fruit"
//	items = ["apple", "pear", "plum"]
//
// The returned list is validated with [errs.ValidateItems].
func LoadItems(path string) (ItemList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ItemList{}, errs.Wrap(errs.ErrCodeNotFound, err, "items file %s not found", path)
		}
		return ItemList{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", path)
	}

	var list ItemList
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		list = parseLines(data)
		list.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	} else if err := toml.Unmarshal(data, &list); err != nil {
		return ItemList{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse %s", path)
	}

	if err := errs.ValidateItems(list.Items); err != nil {
		return ItemList{}, err
	}
	return list, nil
}

func parseLines(data []byte) ItemList {
	var list ItemList
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list.Items = append(list.Items, line)
	}
	return list
}
