package settings

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"editorjump/internal/models"

	"gopkg.in/yaml.v3"
)

func TestFileStore_LoadMissingFile_ReturnsDefaults(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing.yaml"), nil)

	snap, err := Read(store)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(snap.IDEs) != len(models.KnownIDENames) {
		t.Errorf("Expected default IDE list, got %d entries", len(snap.IDEs))
	}
	if snap.Selected != DefaultSelectedIDE {
		t.Errorf("Expected default selection, got %q", snap.Selected)
	}
	if snap.RootProjectPath != "" {
		t.Errorf("Expected empty root path, got %q", snap.RootProjectPath)
	}
}

func TestFileStore_UpdatePersistsUnderNamespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	store := New(path, nil)

	ides := []models.IDE{
		{Name: "IDEA"},
		{Name: "MyTool", IsCustom: true, CommandPath: "/usr/local/bin/tool"},
	}
	if err := SetIDEs(store, ides); err != nil {
		t.Fatalf("SetIDEs() error = %v", err)
	}
	if err := SetSelected(store, "MyTool"); err != nil {
		t.Fatalf("SetSelected() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file error = %v", err)
	}

	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("yaml unmarshal error = %v", err)
	}
	section, ok := raw[Namespace]
	if !ok {
		t.Fatalf("Expected %s section, got %v", Namespace, raw)
	}
	if section[KeySelectedIDE] != "MyTool" {
		t.Errorf("Unexpected selection: %v", section[KeySelectedIDE])
	}
	if !strings.Contains(string(data), "commandPath: /usr/local/bin/tool") {
		t.Errorf("Expected camelCase keys in file:\n%s", data)
	}

	// A second store on the same file sees the same data.
	snap, err := Read(New(path, nil))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(snap.IDEs) != 2 || snap.IDEs[1] != ides[1] {
		t.Errorf("Unexpected IDEs after reload: %+v", snap.IDEs)
	}
	if snap.Selected != "MyTool" {
		t.Errorf("Unexpected selection after reload: %q", snap.Selected)
	}
}

func TestFileStore_KeepsOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("other:\n  keep: me\n"), 0644); err != nil {
		t.Fatal(err)
	}

	store := New(path, nil)
	if err := SetRootProjectPath(store, "/proj/root"); err != nil {
		t.Fatalf("SetRootProjectPath() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "keep: me") {
		t.Errorf("Other sections must survive a write:\n%s", data)
	}

	var root string
	found, err := store.Get(KeyRootProjectPath, &root)
	if err != nil || !found {
		t.Fatalf("Get() found=%v err=%v", found, err)
	}
	if root != "/proj/root" {
		t.Errorf("Expected /proj/root, got %q", root)
	}
}

func TestFileStore_EmptyListIsNotReplacedByDefaults(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "settings.yaml"), nil)
	if err := SetIDEs(store, nil); err != nil {
		t.Fatalf("SetIDEs() error = %v", err)
	}

	snap, err := Read(store)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(snap.IDEs) != 0 {
		t.Errorf("Expected an empty list, got %d entries", len(snap.IDEs))
	}
}

func TestFileStore_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("editorjumper: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Read(New(path, nil)); err == nil {
		t.Fatal("Expected parse error")
	}
}

func TestFileStore_LastChange(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "settings.yaml"), nil)
	if store.LastChange() != nil {
		t.Fatal("Expected no change before the first write")
	}

	if err := SetSelected(store, "IDEA"); err != nil {
		t.Fatal(err)
	}
	if err := SetSelected(store, "GoLand"); err != nil {
		t.Fatal(err)
	}

	change := store.LastChange()
	if change == nil {
		t.Fatal("Expected a change")
	}
	if change.Key != KeySelectedIDE {
		t.Errorf("Unexpected key %q", change.Key)
	}
	if change.Added != 1 || change.Removed != 1 {
		t.Errorf("Expected one line swapped, got +%d -%d", change.Added, change.Removed)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()

	var name string
	found, err := store.Get(KeySelectedIDE, &name)
	if err != nil || found {
		t.Fatalf("Expected missing key, found=%v err=%v", found, err)
	}

	ides := []models.IDE{{Name: "IDEA"}}
	if err := SetIDEs(store, ides); err != nil {
		t.Fatal(err)
	}
	ides[0].Name = "mutated"

	snap, err := Read(store)
	if err != nil {
		t.Fatal(err)
	}
	if snap.IDEs[0].Name != "IDEA" {
		t.Error("MemoryStore must not alias caller slices")
	}
}

func TestFileStore_ConcurrentWritersKeepBothKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	a := New(path, nil)
	b := New(path, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := SetSelected(a, "GoLand"); err != nil {
				t.Error(err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := SetRootProjectPath(b, "/work"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	snap, err := Read(New(path, nil))
	if err != nil {
		t.Fatal(err)
	}
	if snap.Selected != "GoLand" || snap.RootProjectPath != "/work" {
		t.Errorf("Expected both writes to survive, got %+v", snap)
	}
	if _, err := os.Stat(path + ".lock"); err != nil {
		t.Errorf("Expected lock file next to the settings file: %v", err)
	}
}

func TestFileStore_SequentialWritesReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("# user notes\nother: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	store := New(path, nil)

	ides := []models.IDE{{Name: "IDEA"}, {Name: "MyTool", IsCustom: true, CommandPath: "/opt/tool"}}
	if err := SetIDEs(store, ides); err != nil {
		t.Fatalf("SetIDEs() error = %v", err)
	}
	if err := SetSelected(store, "MyTool"); err != nil {
		t.Fatalf("SetSelected() error = %v", err)
	}
	if err := SetRootProjectPath(store, "/proj"); err != nil {
		t.Fatalf("SetRootProjectPath() error = %v", err)
	}
	if err := SetSelected(store, "IDEA"); err != nil {
		t.Fatalf("second SetSelected() error = %v", err)
	}

	snap, err := Read(New(path, nil))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(snap.IDEs) != 2 || snap.IDEs[1] != ides[1] {
		t.Errorf("Unexpected IDEs: %+v", snap.IDEs)
	}
	if snap.Selected != "IDEA" || snap.RootProjectPath != "/proj" {
		t.Errorf("Unexpected snapshot: %+v", snap)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "# user notes") || !strings.Contains(string(data), "other: 5") {
		t.Errorf("Expected the rest of the file to survive:\n%s", data)
	}
	if strings.Count(string(data), KeySelectedIDE) != 1 {
		t.Errorf("Expected the key to be replaced, not repeated:\n%s", data)
	}
}

func TestFileStore_ReaderNeverSeesPartialWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writer := New(path, nil)
	reader := New(path, nil)

	custom := []models.IDE{{Name: "MyTool", IsCustom: true, CommandPath: "/opt/tool"}}
	if err := SetIDEs(writer, custom); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			if err := SetIDEs(writer, custom); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			entries, _ := os.ReadDir(dir)
			for _, e := range entries {
				if e.Name() != "settings.yaml" && e.Name() != "settings.yaml.lock" {
					t.Errorf("Unexpected leftover file %s", e.Name())
				}
			}
			return
		default:
		}
		snap, err := Read(reader)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(snap.IDEs) != 1 || snap.IDEs[0].Name != "MyTool" {
			t.Fatalf("Reader saw %+v, want the custom list", snap.IDEs)
		}
	}
}
