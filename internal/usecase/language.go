package usecase

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/naka-gawa/portfolio-api/internal/domain"
)

// SupportedLangs returns the comma-separated supported_langs entry as codes.
// Every code must parse as a BCP 47 tag.
func SupportedLangs(meta domain.MetaRecord) ([]string, error) {
	var langs []string
	for _, code := range strings.Split(meta[domain.MetaSupportedLangs], ",") {
		if code = strings.TrimSpace(code); code == "" {
			continue
		}
		if _, err := language.Parse(code); err != nil {
			return nil, &domain.ConfigError{Key: domain.MetaSupportedLangs}
		}
		langs = append(langs, code)
	}
	if len(langs) == 0 {
		return nil, &domain.ConfigError{Key: domain.MetaSupportedLangs}
	}
	return langs, nil
}

// Negotiate picks the effective language for requested: the code itself when
// it is a member of supported_langs, compared case-sensitively, and
// default_lang otherwise.
func Negotiate(requested string, meta domain.MetaRecord) (string, error) {
	supported, err := SupportedLangs(meta)
	if err != nil {
		return "", err
	}
	def := strings.TrimSpace(meta[domain.MetaDefaultLang])
	if def == "" {
		return "", &domain.ConfigError{Key: domain.MetaDefaultLang}
	}
	if _, err := language.Parse(def); err != nil {
		return "", &domain.ConfigError{Key: domain.MetaDefaultLang}
	}

	for _, code := range supported {
		if code == requested {
			return code, nil
		}
	}
	return def, nil
}
