package taxonomy

import "testing"

func TestLoad(t *testing.T) {
	tax, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tax.Folders()) == 0 {
		t.Fatal("no folders loaded")
	}
}

func TestFolderLookup(t *testing.T) {
	tax, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, ok := tax.Folder("natural")
	if !ok {
		t.Fatal("folder natural not found")
	}
	if f.Name == "" {
		t.Fatal("folder has no name")
	}

	if _, ok := tax.Folder("no-such-folder"); ok {
		t.Fatal("unknown folder reported as existing")
	}
}

func TestContains(t *testing.T) {
	tax, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !tax.Contains("natural", "medical") {
		t.Fatal("medical should belong to natural")
	}
	if tax.Contains("humanities", "medical") {
		t.Fatal("medical should not belong to humanities")
	}
	if tax.Contains("no-such-folder", "medical") {
		t.Fatal("unknown folder should contain nothing")
	}
}

func TestCategories(t *testing.T) {
	tax, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cats, ok := tax.Categories("natural")
	if !ok || len(cats) == 0 {
		t.Fatalf("expected categories for natural, got ok=%v len=%d", ok, len(cats))
	}

	if _, ok := tax.Categories("no-such-folder"); ok {
		t.Fatal("unknown folder should not return categories")
	}
}
