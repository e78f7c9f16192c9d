package model

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// SelectorAll requests every category, including the catch-all "others" folder.
// SelectorAllAlias is accepted as an English spelling of the same request.
const (
	SelectorAll      = "todos"
	SelectorAllAlias = "all"
	SelectorOthers   = "outros"
)

// Category maps a set of extensions to one destination folder
type Category struct {
	// Selector is the user-facing token ("1".."11")
	Selector string `json:"selector"`

	// Folder is the subfolder created under the base directory
	Folder string `json:"folder"`

	// Description is a short human label
	Description string `json:"description"`

	// Extensions are lowercase, dot-prefixed
	Extensions []string `json:"extensions"`

	extensionSet map[string]struct{}
}

// Matches reports whether ext (lowercase, dot-prefixed) belongs to the category
func (c Category) Matches(ext string) bool {
	if c.extensionSet == nil {
		for _, e := range c.Extensions {
			if e == ext {
				return true
			}
		}
		return false
	}
	_, ok := c.extensionSet[ext]
	return ok
}

// IsOthers reports whether c is the catch-all category
func (c Category) IsOthers() bool {
	return c.Selector == SelectorOthers
}

func newCategory(selector, folder, description string, exts ...string) Category {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[e] = struct{}{}
	}
	return Category{
		Selector:     selector,
		Folder:       folder,
		Description:  description,
		Extensions:   exts,
		extensionSet: set,
	}
}

// CategoryTable is the ordered rule set consulted by Classify.
// Order is priority: the first matching category wins.
type CategoryTable struct {
	categories []Category
	others     Category
}

// DefaultCategoryTable returns the built-in rules
func DefaultCategoryTable() *CategoryTable {
	return &CategoryTable{
		categories: []Category{
			newCategory("1", "Arquivos de Códigos", "code files",
				".py", ".cs", ".js", ".php", ".html", ".sql", ".css", ".db", ".mdb", ".sqlite"),
			newCategory("2", "texto e xml", "fiscal text/xml",
				".txt", ".xml", ".log"),
			newCategory("3", "Arquivos Compactados", "compressed archives",
				".zip", ".rar", ".tar", ".gz", ".7z"),
			newCategory("4", "pdf", "pdf",
				".pdf"),
			newCategory("5", "audio", "audio",
				".mp3", ".wav", ".aac", ".flac", ".ogg"),
			newCategory("6", "imagens", "images",
				".png", ".jpg", ".bmp", ".gif", ".raw", ".tiff", ".svg", ".jpeg"),
			newCategory("7", "videos", "video",
				".mp4", ".avi", ".flv", ".mkv", ".wmv", ".mov"),
			newCategory("8", "Documentos do word", "word documents",
				".doc", ".docx"),
			newCategory("9", "Planilhas", "spreadsheets",
				".xls", ".xlsx", ".ods", ".odt", ".csv", ".odp", ".rtf"),
			newCategory("10", "Arquivos de apresentação", "presentations",
				".ppt", ".pptx"),
			newCategory("11", "Arquivos do Windows", "OS/system files",
				".exe", ".msi", ".ink", ".dll", ".sys", ".ini", ".bat"),
		},
		others: newCategory(SelectorOthers, "outros", "others"),
	}
}

// WithFolderNames returns a copy of the table with folder names replaced
// for the given selectors. Unknown selectors are rejected.
func (t *CategoryTable) WithFolderNames(names map[string]string) (*CategoryTable, error) {
	out := &CategoryTable{
		categories: make([]Category, len(t.categories)),
		others:     t.others,
	}
	copy(out.categories, t.categories)

	for selector, folder := range names {
		folder = strings.TrimSpace(folder)
		if folder == "" || strings.ContainsAny(folder, `/\`) {
			return nil, fmt.Errorf("invalid folder name %q for selector %s", folder, selector)
		}

		selector = strings.ToLower(strings.TrimSpace(selector))
		if selector == SelectorOthers {
			out.others.Folder = folder
			continue
		}

		found := false
		for i := range out.categories {
			if out.categories[i].Selector == selector {
				out.categories[i].Folder = folder
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSelector, selector)
		}
	}

	return out, nil
}

// Categories returns the specific categories in priority order
func (t *CategoryTable) Categories() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Others returns the catch-all category
func (t *CategoryTable) Others() Category {
	return t.others
}

// Folders returns every destination folder name, including "others"
func (t *CategoryTable) Folders() []string {
	folders := make([]string, 0, len(t.categories)+1)
	for _, c := range t.categories {
		folders = append(folders, c.Folder)
	}
	return append(folders, t.others.Folder)
}

// Classify returns the first category, in priority order, that is part of
// the selection and recognizes ext. When the selection includes "all",
// an extension matching no specific category is classified as others.
// An empty extension never classifies.
func (t *CategoryTable) Classify(ext string, sel Selection) (Category, bool) {
	ext = strings.ToLower(ext)
	if ext == "" {
		return Category{}, false
	}

	for _, c := range t.categories {
		if sel.Includes(c.Selector) && c.Matches(ext) {
			return c, true
		}
	}

	if sel.All() {
		return t.others, true
	}
	return Category{}, false
}

// Route is Classify plus the catch-all rule for files without an extension:
// under "all" every regular file has a destination.
func (t *CategoryTable) Route(ext string, sel Selection) (Category, bool) {
	if c, ok := t.Classify(ext, sel); ok {
		return c, true
	}
	if sel.All() {
		return t.others, true
	}
	return Category{}, false
}

// Selection is a parsed set of selector tokens
type Selection struct {
	tokens map[string]struct{}
	all    bool
}

// ParseSelection parses a comma separated list such as "1, 4,todos".
// Tokens are trimmed and lowercased; empty tokens are dropped.
func ParseSelection(raw string) (Selection, error) {
	return NewSelection(strings.Split(raw, ","))
}

// NewSelection builds a selection from individual tokens
func NewSelection(tokens []string) (Selection, error) {
	sel := Selection{tokens: make(map[string]struct{})}

	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if tok == SelectorAll || tok == SelectorAllAlias {
			sel.all = true
			continue
		}
		if _, ok := knownSelectors[tok]; !ok {
			return Selection{}, fmt.Errorf("%w: %q", ErrUnknownSelector, tok)
		}
		sel.tokens[tok] = struct{}{}
	}

	if !sel.all && len(sel.tokens) == 0 {
		return Selection{}, ErrEmptySelection
	}
	return sel, nil
}

// MustParseSelection is ParseSelection for fixed inputs
func MustParseSelection(raw string) Selection {
	sel, err := ParseSelection(raw)
	if err != nil {
		panic(err)
	}
	return sel
}

// All reports whether the wildcard was requested
func (s Selection) All() bool {
	return s.all
}

// Includes reports whether selector is requested, directly or through the wildcard
func (s Selection) Includes(selector string) bool {
	if s.all {
		return true
	}
	_, ok := s.tokens[selector]
	return ok
}

// Tokens returns the normalized tokens, numerically sorted, wildcard last
func (s Selection) Tokens() []string {
	out := make([]string, 0, len(s.tokens)+1)
	for tok := range s.tokens {
		out = append(out, tok)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return out[i] < out[j]
	})
	if s.all {
		out = append(out, SelectorAll)
	}
	return out
}

func (s Selection) String() string {
	return strings.Join(s.Tokens(), ",")
}

var knownSelectors = func() map[string]struct{} {
	known := make(map[string]struct{})
	for _, c := range DefaultCategoryTable().categories {
		known[c.Selector] = struct{}{}
	}
	return known
}()

// ExtensionOf returns the lowercase extension of path's base name, dot included.
// Leading dots are not an extension: ".bashrc" has none, "a.tar.gz" is ".gz".
func ExtensionOf(path string) string {
	base := strings.TrimLeft(filepath.Base(path), ".")
	return strings.ToLower(filepath.Ext(base))
}
