package menu

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileDrink struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Milk     bool     `yaml:"milk"`
	Volumes  []string `yaml:"volumes"`
}

type fileMenu struct {
	Drinks []fileDrink `yaml:"drinks"`
	Milks  []string    `yaml:"milks"`
	Syrups []string    `yaml:"syrups"`
}

// FileSource loads the menu from a local YAML file. Used when the shop has
// no Google Sheets access configured.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(_ context.Context) (*Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	var fm fileMenu
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("parse menu file: %w", err)
	}
	if len(fm.Drinks) == 0 {
		return nil, fmt.Errorf("menu file %s has no drinks", s.path)
	}
	drinks := make([]Drink, 0, len(fm.Drinks))
	for _, fd := range fm.Drinks {
		if len(fd.Volumes) == 0 {
			return nil, fmt.Errorf("drink %q has no volumes", fd.Name)
		}
		drinks = append(drinks, Drink{
			Name: fd.Name,
			Attributes: DrinkAttributes{
				Category:       fd.Category,
				MilkCompatible: fd.Milk,
				Volumes:        fd.Volumes,
			},
		})
	}
	return NewCatalog(drinks, fm.Milks, fm.Syrups), nil
}
