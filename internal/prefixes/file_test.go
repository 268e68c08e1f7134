package prefixes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/topoprobe/campaign/internal/model"
)

func TestLoadSave(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "universe.json")
		groups := newGroups(2, 1)
		if err := Save(path, groups); err != nil {
			t.Fatal(err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(groups, loaded); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("Load with the testdata universe", func(t *testing.T) {
		groups, err := Load(filepath.Join("testdata", "universe.json"))
		if err != nil {
			t.Fatal(err)
		}
		if len(groups) != 3 || model.TotalSize(groups) != 5 {
			t.Fatal("unexpected groups", groups)
		}
	})

	t.Run("Load with nonexistent file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nonexistent.json"))
		if !os.IsNotExist(err) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("Load with invalid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invalid.json")
		if err := os.WriteFile(path, []byte("{"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Fatal("expected an error")
		}
	})
}
