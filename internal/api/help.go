package api

import "context"

// Configuration holds service-wide limits the client should respect.
type Configuration struct {
	CharactersReservedPerMedia int               `json:"characters_reserved_per_media"`
	MaxMediaPerUpload          int               `json:"max_media_per_upload"`
	PhotoSizeLimit             int64             `json:"photo_size_limit"`
	ShortURLLength             int               `json:"short_url_length" validate:"required"`
	ShortURLLengthHTTPS        int               `json:"short_url_length_https"`
	NonUsernamePaths           []string          `json:"non_username_paths"`
	PhotoSizes                 map[string]Sizing `json:"photo_sizes"`
}

type Sizing struct {
	Width  int    `json:"w"`
	Height int    `json:"h"`
	Resize string `json:"resize"`
}

// Language is an interface language the service supports.
type Language struct {
	Code   string `json:"code" validate:"required"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (s HelpService) legal(ctx context.Context, path, name string) (string, error) {
	r, err := s.get(ctx, path, nil)
	if err != nil {
		return "", err
	}
	text, err := field[string](r, name)
	if err != nil {
		return "", err
	}
	return *text, nil
}

// TermsOfService returns the terms of service text.
func (s HelpService) TermsOfService(ctx context.Context) (string, error) {
	return s.legal(ctx, "legal/tos.json", "tos")
}

// PrivacyPolicy returns the privacy policy text.
func (s HelpService) PrivacyPolicy(ctx context.Context) (string, error) {
	return s.legal(ctx, "legal/privacy.json", "privacy")
}

// Test reports whether the service answers with "ok".
func (s HelpService) Test(ctx context.Context) (bool, error) {
	r, err := s.get(ctx, "help/test.json", nil)
	return literal(r, err, "ok")
}

func (s HelpService) Configuration(ctx context.Context) (*Configuration, error) {
	return one[Configuration](s.get(ctx, "help/configuration.json", nil))
}

func (s HelpService) Languages(ctx context.Context) ([]Language, error) {
	return list[Language](s.get(ctx, "help/languages.json", nil))
}
