package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pageza/pantrymatch/backend/config"
)

// ErrInvalidDocument is returned for corpus documents that cannot be seeded.
var ErrInvalidDocument = errors.New("invalid corpus document")

// CorpusDocument is the import format for recipes and substitutions.
// Ingredients are referenced by name.
type CorpusDocument struct {
	Recipes       []DocumentRecipe       `json:"recipes"`
	Substitutions []DocumentSubstitution `json:"substitutions"`
}

type DocumentRecipe struct {
	Name         string               `json:"name"`
	Cuisine      string               `json:"cuisine"`
	Servings     int                  `json:"servings"`
	Instructions string               `json:"instructions"`
	Ingredients  []DocumentIngredient `json:"ingredients"`
}

type DocumentIngredient struct {
	Name     string  `json:"name"`
	Qty      float64 `json:"qty"`
	Unit     string  `json:"unit"`
	Optional bool    `json:"optional"`
}

// DocumentSubstitution says Substitute may stand in for Ingredient.
type DocumentSubstitution struct {
	Ingredient string `json:"ingredient"`
	Substitute string `json:"substitute"`
	Note       string `json:"note"`
}

// ObjectOpener fetches an object from blob storage.
type ObjectOpener interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// DecodeDocument reads a JSON corpus document. Unknown fields are rejected.
func DecodeDocument(r io.Reader) (*CorpusDocument, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc CorpusDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// LoadDocumentFile reads a corpus document from the local filesystem.
func LoadDocumentFile(path string) (*CorpusDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus document: %w", err)
	}
	defer f.Close()
	return DecodeDocument(f)
}

// LoadDocumentS3 reads a corpus document from an s3://bucket/key URI.
func LoadDocumentS3(ctx context.Context, opener ObjectOpener, uri string) (*CorpusDocument, error) {
	bucket, key, err := config.ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	body, err := opener.Open(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return DecodeDocument(body)
}

// LoadDocument dispatches on the location: s3:// URIs go through opener,
// everything else is a local path.
func LoadDocument(ctx context.Context, opener ObjectOpener, location string) (*CorpusDocument, error) {
	if strings.HasPrefix(location, "s3://") {
		if opener == nil {
			return nil, fmt.Errorf("no S3 client configured for %s", location)
		}
		return LoadDocumentS3(ctx, opener, location)
	}
	return LoadDocumentFile(location)
}
