// Package taxonomy holds the static folder/category reference data. The
// taxonomy is fixed configuration: it is embedded at build time and offers
// lookups only, no runtime create/update/delete.
package taxonomy

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var rawTaxonomy []byte

// Category is a leaf of the taxonomy; it belongs to exactly one folder.
type Category struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Folder groups categories.
type Folder struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	Categories []Category `yaml:"categories"`
}

// Taxonomy provides lookups over the embedded folder/category tree.
type Taxonomy struct {
	folders []Folder
	byID    map[string]*Folder
}

// Load parses the embedded taxonomy. A malformed file is a configuration
// error and should be fatal at startup.
func Load() (*Taxonomy, error) {
	var doc struct {
		Folders []Folder `yaml:"folders"`
	}

	if err := yaml.Unmarshal(rawTaxonomy, &doc); err != nil {
		return nil, fmt.Errorf("taxonomy parse error: %w", err)
	}
	if len(doc.Folders) == 0 {
		return nil, fmt.Errorf("taxonomy is empty")
	}

	t := &Taxonomy{
		folders: doc.Folders,
		byID:    make(map[string]*Folder, len(doc.Folders)),
	}
	for i := range t.folders {
		f := &t.folders[i]
		if _, ok := t.byID[f.ID]; ok {
			return nil, fmt.Errorf("duplicate folder id: %s", f.ID)
		}
		t.byID[f.ID] = f
	}

	return t, nil
}

// Folders returns all folders in declaration order.
func (t *Taxonomy) Folders() []Folder {
	return t.folders
}

// Folder returns the folder with the given id, or false if it does not exist.
func (t *Taxonomy) Folder(id string) (Folder, bool) {
	f, ok := t.byID[id]
	if !ok {
		return Folder{}, false
	}
	return *f, true
}

// Categories returns the categories of the given folder, or false if the
// folder does not exist.
func (t *Taxonomy) Categories(folderID string) ([]Category, bool) {
	f, ok := t.byID[folderID]
	if !ok {
		return nil, false
	}
	return f.Categories, true
}

// Contains reports whether the category belongs to the given folder.
func (t *Taxonomy) Contains(folderID, categoryID string) bool {
	f, ok := t.byID[folderID]
	if !ok {
		return false
	}
	for _, c := range f.Categories {
		if c.ID == categoryID {
			return true
		}
	}
	return false
}
