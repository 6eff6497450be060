package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"bot-companion-web/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// CommandService holds the bot's command catalog for the commands page.
type CommandService struct {
	Categories []models.CommandCategory
}

// LoadCommandCatalog reads categories from a YAML file of the form
//
//	categories:
//	  - name: christmas events
//	    commands:
//	      - name: /redeem
//	        description: Redeem a sock code
//
// A missing file yields an empty catalog.
func LoadCommandCatalog(path string) (*CommandService, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &CommandService{Categories: []models.CommandCategory{}}, nil
		}
		return nil, fmt.Errorf("read command catalog: %w", err)
	}
	return ParseCommandCatalog(data)
}

func ParseCommandCatalog(data []byte) (*CommandService, error) {
	var doc struct {
		Categories []models.CommandCategory `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse command catalog: %w", err)
	}

	title := cases.Title(language.English)
	categories := make([]models.CommandCategory, 0, len(doc.Categories))
	for _, cat := range doc.Categories {
		cat.Slug = slug.Make(cat.Name)
		cat.Title = title.String(cat.Name)
		if cat.Commands == nil {
			cat.Commands = []models.Command{}
		}
		categories = append(categories, cat)
	}
	return &CommandService{Categories: categories}, nil
}

// GetCommands returns the catalog as JSON.
func (s *CommandService) GetCommands(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": s.Categories})
}
