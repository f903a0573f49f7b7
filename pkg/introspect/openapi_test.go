package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockgen/pkg/template"
)

const petstore = `
openapi: 3.0.3
info:
  title: Pets
  version: "1.0"
paths: {}
components:
  schemas:
    Pet:
      type: object
      properties:
        id:
          type: integer
          x-mock-rule: "+1"
        name:
          type: string
          x-mock-placeholder: "@FIRST"
        species:
          type: string
          enum: [cat, dog]
        weight:
          type: number
          minimum: 1
          maximum: 40
        vaccinated:
          type: boolean
        owner:
          $ref: '#/components/schemas/Owner'
        photos:
          type: array
          maxItems: 2
          items:
            type: string
            format: uri
    Owner:
      allOf:
        - $ref: '#/components/schemas/Contact'
        - type: object
          properties:
            since:
              type: string
              format: date
    Contact:
      type: object
      properties:
        email:
          type: string
`

func TestOpenAPITemplate(t *testing.T) {
	tmpl, err := OpenAPI{Component: "Pet"}.Template(petstore, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"id|+1", "name", "owner", "photos|1-2", "species", "vaccinated|1", "weight|1-40.2",
	}, keys(t, tmpl))
	assert.Equal(t, "@FIRST", get(t, tmpl, "name"))
	assert.Equal(t, `@PICK("cat","dog")`, get(t, tmpl, "species"))
	assert.Equal(t, []any{"@URL"}, get(t, tmpl, "photos|1-2"))

	owner := get(t, tmpl, "owner")
	assert.Equal(t, []string{"email", "since"}, keys(t, owner))
	assert.Equal(t, "@EMAIL", get(t, owner, "email"))
	assert.Equal(t, "@DATE", get(t, owner, "since"))

	out, err := template.New(nil).Render(tmpl, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), get(t, out, "id"))
	assert.Contains(t, []any{"cat", "dog"}, get(t, out, "species"))
	weight := get(t, out, "weight").(float64)
	assert.GreaterOrEqual(t, weight, 1.0)
	assert.LessOrEqual(t, weight, 40.0)
}

func TestOpenAPIComponentNotFound(t *testing.T) {
	_, err := OpenAPI{Component: "Order"}.Template(petstore, Config{})
	assert.ErrorIs(t, err, ErrComponentNotFound)

	noComponents := "openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\n"
	_, err = OpenAPI{Component: "Pet"}.Template(noComponents, Config{})
	assert.ErrorIs(t, err, ErrComponentNotFound)
}

func TestComponentNames(t *testing.T) {
	names, err := ComponentNames([]byte(petstore))
	require.NoError(t, err)
	assert.Equal(t, []string{"Contact", "Owner", "Pet"}, names)

	_, err = ComponentNames(42)
	assert.Error(t, err)
}
