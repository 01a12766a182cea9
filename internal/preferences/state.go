package preferences

import (
	"context"
	"fmt"
	"sync"

	"github.com/JaimeStill/portfolio/internal/locale"
)

// AppState holds the theme and language of one client and writes every
// change through to its Store.
type AppState struct {
	store Store

	mu    sync.RWMutex
	theme Theme
	lang  locale.Language
}

// NewAppState creates a state with explicit values. Nothing is persisted
// until a setter runs.
func NewAppState(store Store, theme Theme, lang locale.Language) *AppState {
	return &AppState{store: store, theme: theme, lang: lang}
}

// Load reads both preferences from store. A missing or invalid language is
// detected from acceptLanguage; a missing or invalid theme is DefaultTheme.
func Load(ctx context.Context, store Store, acceptLanguage string) (*AppState, error) {
	theme := DefaultTheme
	if v, ok, err := store.Get(ctx, KeyTheme); err != nil {
		return nil, err
	} else if ok {
		if t, err := ParseTheme(v); err == nil {
			theme = t
		}
	}

	lang := locale.Detect(acceptLanguage)
	if v, ok, err := store.Get(ctx, KeyLanguage); err != nil {
		return nil, err
	} else if ok {
		if l, err := locale.ParseLanguage(v); err == nil {
			lang = l
		}
	}

	return NewAppState(store, theme, lang), nil
}

func (s *AppState) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *AppState) Language() locale.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// Root derives the document root attributes.
func (s *AppState) Root() DocumentRoot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root()
}

func (s *AppState) root() DocumentRoot {
	root := DocumentRoot{Classes: []string{}, Lang: string(s.lang)}
	if s.theme == Dark {
		root.Classes = append(root.Classes, DarkClass)
	}
	return root
}

// Snapshot returns both preferences and the derived root.
func (s *AppState) Snapshot() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Preferences{Theme: s.theme, Language: s.lang, Root: s.root()}
}

// SetTheme persists and applies theme.
func (s *AppState) SetTheme(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, KeyTheme, string(theme)); err != nil {
		return err
	}
	s.theme = theme
	return nil
}

// SetLanguage persists and applies lang.
func (s *AppState) SetLanguage(ctx context.Context, lang locale.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, KeyLanguage, string(lang)); err != nil {
		return err
	}
	s.lang = lang
	return nil
}

// ToggleTheme switches between light and dark.
func (s *AppState) ToggleTheme(ctx context.Context) (Theme, error) {
	next := s.Theme().Toggle()
	if err := s.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// ToggleLanguage switches between pt and en.
func (s *AppState) ToggleLanguage(ctx context.Context) (locale.Language, error) {
	next := s.Language().Toggle()
	if err := s.SetLanguage(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
