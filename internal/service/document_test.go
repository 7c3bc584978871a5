package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpener struct {
	objects map[string]string
	bucket  string
	key     string
}

func (f *fakeOpener) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	f.bucket, f.key = bucket, key
	body, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

const documentJSON = `{
  "recipes": [
    {"name": "Toast", "cuisine": "British", "servings": 1, "instructions": "Toast it.",
     "ingredients": [{"name": "bread", "qty": 2, "unit": "slices"}, {"name": "butter", "optional": true}]}
  ],
  "substitutions": [{"ingredient": "butter", "substitute": "margarine"}]
}`

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(documentJSON))
	require.NoError(t, err)
	require.Len(t, doc.Recipes, 1)
	assert.Equal(t, "Toast", doc.Recipes[0].Name)
	assert.Equal(t, DocumentIngredient{Name: "butter", Optional: true}, doc.Recipes[0].Ingredients[1])
	assert.Equal(t, []DocumentSubstitution{{Ingredient: "butter", Substitute: "margarine"}}, doc.Substitutions)

	_, err = DecodeDocument(strings.NewReader(`{"recipes": [], "extra": true}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = DecodeDocument(strings.NewReader(`not json`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestLoadDocumentFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(documentJSON), 0o600))

	doc, err := LoadDocument(context.Background(), nil, path)
	require.NoError(t, err)
	assert.Len(t, doc.Recipes, 1)

	_, err = LoadDocument(context.Background(), nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadDocumentFromS3(t *testing.T) {
	opener := &fakeOpener{objects: map[string]string{"corpus/exports/v1.json": documentJSON}}

	doc, err := LoadDocument(context.Background(), opener, "s3://corpus/exports/v1.json")
	require.NoError(t, err)
	assert.Equal(t, "corpus", opener.bucket)
	assert.Equal(t, "exports/v1.json", opener.key)
	assert.Len(t, doc.Recipes, 1)

	_, err = LoadDocument(context.Background(), opener, "s3://corpus/missing.json")
	assert.Error(t, err)

	_, err = LoadDocument(context.Background(), nil, "s3://corpus/exports/v1.json")
	assert.Error(t, err)
}
