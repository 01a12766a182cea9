package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed messages/*.toml
var messageFS embed.FS

// Message identifiers shared across packages.
const (
	MsgPageHome          = "PageHome"
	MsgPageAbout         = "PageAbout"
	MsgPageProjects      = "PageProjects"
	MsgPageContact       = "PageContact"
	MsgPagePrints        = "PagePrints"
	MsgArtworkAlt        = "ArtworkAlt"
	MsgProjectArtworkAlt = "ProjectArtworkAlt"
	MsgGalleryLoadFailed = "GalleryLoadFailed"
	MsgGalleryNotFound   = "GalleryNotFound"
	MsgContactSent       = "ContactSent"
	MsgContactFailed     = "ContactFailed"
	MsgContactInvalid    = "ContactInvalid"
)

// Translator resolves a message for a language.
type Translator interface {
	Translate(lang Language, id string, data map[string]any) string
}

// Catalog is a Translator backed by the embedded message files.
type Catalog struct {
	bundle     *i18n.Bundle
	mu         sync.Mutex
	localizers map[Language]*i18n.Localizer
}

// NewCatalog loads the embedded pt/en message files.
func NewCatalog() (*Catalog, error) {
	return NewCatalogFS(messageFS, "messages")
}

// NewCatalogFS loads every *.toml message file under dir in fsys. File names
// carry the language tag (en.toml, pt.toml).
func NewCatalogFS(fsys fs.FS, dir string) (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	paths, err := fs.Glob(fsys, dir+"/*.toml")
	if err != nil {
		return nil, fmt.Errorf("list message files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no message files in %s", dir)
	}

	for _, path := range paths {
		if _, err := bundle.LoadMessageFileFS(fsys, path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	return &Catalog{
		bundle:     bundle,
		localizers: make(map[Language]*i18n.Localizer),
	}, nil
}

// Translate renders message id in lang. Missing messages return the id.
func (c *Catalog) Translate(lang Language, id string, data map[string]any) string {
	msg, err := c.localizer(lang).Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return id
	}
	return msg
}

func (c *Catalog) localizer(lang Language) *i18n.Localizer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.localizers[lang]; ok {
		return l
	}
	l := i18n.NewLocalizer(c.bundle, string(lang), string(DefaultLanguage))
	c.localizers[lang] = l
	return l
}
