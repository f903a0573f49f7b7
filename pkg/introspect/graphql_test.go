package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockgen/pkg/template"
)

const librarySDL = `
scalar DateTime
scalar Email

enum Genre { FICTION POETRY HISTORY }

type Author {
  name: String!
  email: Email
  books: [Book!]!
}

type Book {
  id: ID!
  isbn: String! @mock(placeholder: "@STRING(number,13,13)")
  title: String!
  pages: Int
  price: Float
  available: Boolean!
  genre: Genre!
  published: DateTime
  serial: Int! @mock(rule: "+1")
  tags: [String!]! @mock(rule: "2-3", placeholder: "@WORD")
  author: Author
}

type Query {
  books: [Book!]!
}
`

func TestGraphQLTemplate(t *testing.T) {
	tmpl, err := GraphQL{Type: "Book"}.Template(librarySDL, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"id", "isbn", "title", "pages|1-100", "price|1-100.2", "available|1",
		"genre", "published", "serial|+1", "tags|2-3", "author",
	}, keys(t, tmpl))

	assert.Equal(t, "@UUID", get(t, tmpl, "id"))
	assert.Equal(t, "@STRING(number,13,13)", get(t, tmpl, "isbn"))
	assert.Equal(t, "@TITLE", get(t, tmpl, "title"))
	assert.Equal(t, `@PICK("FICTION","POETRY","HISTORY")`, get(t, tmpl, "genre"))
	assert.Equal(t, "@DATETIME(rfc3339)", get(t, tmpl, "published"))
	assert.Equal(t, []any{"@WORD"}, get(t, tmpl, "tags|2-3"))

	author := get(t, tmpl, "author")
	assert.Equal(t, []string{"name", "email"}, keys(t, author), "Book is not expanded again inside Author")
	assert.Equal(t, "@EMAIL", get(t, author, "email"))

	out, err := template.New(nil).Render(tmpl, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), get(t, out, "serial"))
	assert.Regexp(t, `^\d{13}$`, get(t, out, "isbn"))
	assert.Contains(t, []any{"FICTION", "POETRY", "HISTORY"}, get(t, out, "genre"))
}

func TestGraphQLDeclaredDirective(t *testing.T) {
	sdl := `
directive @mock(rule: String, placeholder: String) on FIELD_DEFINITION
type Item { count: Int! @mock(rule: "5") }
type Query { item: Item }
`
	tmpl, err := GraphQL{Type: "Item"}.Template([]byte(sdl), Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"count|5"}, keys(t, tmpl))
}

func TestGraphQLErrors(t *testing.T) {
	_, err := GraphQL{Type: "Magazine"}.Template(librarySDL, Config{})
	assert.ErrorIs(t, err, ErrTypeNotFound)

	_, err = GraphQL{Type: "Genre"}.Template(librarySDL, Config{})
	assert.ErrorIs(t, err, ErrTypeNotFound, "enums are not object types")

	_, err = GraphQL{Type: "Book"}.Template("type {", Config{})
	assert.Error(t, err)
}
