package model

import (
	"errors"
	"testing"
)

func TestExtensionOf(t *testing.T) {
	tests := map[string]string{
		"/tmp/Report.PDF":  ".pdf",
		"archive.tar.gz":   ".gz",
		"README":           "",
		"/home/me/.bashrc": "",
		"..hidden.txt":     ".txt",
	}
	for path, want := range tests {
		if got := ExtensionOf(path); got != want {
			t.Errorf("ExtensionOf(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		raw     string
		tokens  string
		all     bool
		wantErr error
	}{
		{raw: "4,6,3", tokens: "3,4,6"},
		{raw: " 10, 2 ,,1", tokens: "1,2,10"},
		{raw: "4,4", tokens: "4"},
		{raw: "TODOS", tokens: "todos", all: true},
		{raw: "all,1", tokens: "1,todos", all: true},
		{raw: "12", wantErr: ErrUnknownSelector},
		{raw: "outros", wantErr: ErrUnknownSelector},
		{raw: " , ", wantErr: ErrEmptySelection},
		{raw: "", wantErr: ErrEmptySelection},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			sel, err := ParseSelection(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sel.String() != tt.tokens {
				t.Errorf("tokens = %q, want %q", sel.String(), tt.tokens)
			}
			if sel.All() != tt.all {
				t.Errorf("All() = %v, want %v", sel.All(), tt.all)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	table := DefaultCategoryTable()

	tests := []struct {
		name   string
		ext    string
		sel    string
		folder string
		ok     bool
	}{
		{"selected", ".pdf", "4", "pdf", true},
		{"uppercase", ".JPG", "6", "imagens", true},
		{"not selected", ".pdf", "6", "", false},
		{"unknown without todos", ".xyz", "1,2,3", "", false},
		{"unknown with todos", ".xyz", "todos", "outros", true},
		{"known with todos", ".mp3", "todos", "audio", true},
		{"empty extension", "", "todos", "", false},
		{"code", ".sqlite", "1", "Arquivos de Códigos", true},
		{"system", ".dll", "11", "Arquivos do Windows", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := table.Classify(tt.ext, MustParseSelection(tt.sel))
			if ok != tt.ok {
				t.Fatalf("Classify ok = %v, want %v", ok, tt.ok)
			}
			if c.Folder != tt.folder {
				t.Errorf("folder = %q, want %q", c.Folder, tt.folder)
			}
		})
	}
}

func TestRouteSendsExtensionlessFilesToOthers(t *testing.T) {
	table := DefaultCategoryTable()

	c, ok := table.Route("", MustParseSelection("todos"))
	if !ok || !c.IsOthers() {
		t.Fatalf("expected others, got %+v (ok=%v)", c, ok)
	}

	if _, ok := table.Route("", MustParseSelection("1,2")); ok {
		t.Fatal("expected no destination without todos")
	}
}

func TestCategoryTableShape(t *testing.T) {
	table := DefaultCategoryTable()

	categories := table.Categories()
	if len(categories) != 11 {
		t.Fatalf("expected 11 categories, got %d", len(categories))
	}
	for i, c := range categories {
		if c.IsOthers() {
			t.Errorf("category %d is the catch-all", i+1)
		}
	}
	if folders := table.Folders(); len(folders) != 12 || folders[11] != "outros" {
		t.Errorf("unexpected folders %v", folders)
	}

	// callers cannot mutate the table
	categories[0].Folder = "changed"
	if table.Categories()[0].Folder == "changed" {
		t.Error("Categories() leaked internal state")
	}
}

func TestWithFolderNames(t *testing.T) {
	base := DefaultCategoryTable()

	renamed, err := base.WithFolderNames(map[string]string{"4": "PDFs", "outros": "misc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, _ := renamed.Classify(".pdf", MustParseSelection("4"))
	if c.Folder != "PDFs" {
		t.Errorf("folder = %q, want PDFs", c.Folder)
	}
	if renamed.Others().Folder != "misc" {
		t.Errorf("others folder = %q, want misc", renamed.Others().Folder)
	}
	if orig, _ := base.Classify(".pdf", MustParseSelection("4")); orig.Folder != "pdf" {
		t.Errorf("base table modified: %q", orig.Folder)
	}

	if _, err := base.WithFolderNames(map[string]string{"42": "x"}); !errors.Is(err, ErrUnknownSelector) {
		t.Errorf("expected ErrUnknownSelector, got %v", err)
	}
	if _, err := base.WithFolderNames(map[string]string{"4": "a/b"}); err == nil {
		t.Error("expected an error for a folder name with a separator")
	}
}

func TestSweepReportAdd(t *testing.T) {
	var r SweepReport
	r.Add(Moved("a", "b", 1))
	r.Add(Skipped("c", "d", ReasonAlreadyExists, 0))
	r.Add(Failed("e", "f", ReasonExhaustedRetries, 5))
	r.Add(Ignored("g", ReasonUnclassified))
	r.Add(Moved("h", "i", 2))

	if r.Moved != 2 || r.Skipped != 1 || r.Failed != 1 || r.Ignored != 1 {
		t.Errorf("unexpected counts %+v", r)
	}
	if len(r.Results) != 5 {
		t.Errorf("expected 5 results, got %d", len(r.Results))
	}

	if kind, ok := EventForResult(Ignored("g", ReasonUnclassified)); ok {
		t.Errorf("ignored results publish nothing, got %s", kind)
	}
	if kind, _ := EventForResult(Failed("e", "f", ReasonExhaustedRetries, 5)); kind != EventFileFailed {
		t.Errorf("expected %s, got %s", EventFileFailed, kind)
	}
}
