package codepad

import (
	"context"
	"fmt"
	"net/http"
)

// LanguagesService provides language lookup operations.
type LanguagesService struct {
	c *Client
}

// List returns every supported language.
func (s *LanguagesService) List(ctx context.Context) ([]Language, error) {
	out, err := doRequest[struct {
		Languages []Language `json:"languages"`
	}](ctx, s.c, http.MethodGet, "/languages", nil, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return out.Languages, nil
}

// Get returns the language with the given remote service id.
// An unknown id yields an *APIError with StatusCode 404.
func (s *LanguagesService) Get(ctx context.Context, id int) (*Language, error) {
	return doRequest[Language](ctx, s.c, http.MethodGet, fmt.Sprintf("/languages/%d", id), nil, nil, http.StatusOK)
}
