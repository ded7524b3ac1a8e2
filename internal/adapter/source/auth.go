package source

import (
	"github.com/mmcdole/arcade/internal/adapter"
	"github.com/mmcdole/arcade/internal/domain"
)

// NewSession derives the mutation permission from config. Sign-in happens
// outside arcade; a configured library with a token counts as signed in.
func NewSession(cfg *adapter.Config) domain.Session {
	return domain.StaticSession(cfg.HasLibrary() && cfg.Library.Token != "")
}
