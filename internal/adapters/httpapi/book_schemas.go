package httpapi

import "github.com/atvirokodosprendimai/bookstore/internal/schema"

// Numeric bounds keep decoded values inside an int.
const (
	maxPages = 100000
	maxYear  = 9999
)

// Request body shapes. Both are closed: unknown fields are rejected.
var (
	createBookSchema = schema.Object(
		schema.String("isbn", schema.Required(), schema.MinLength(1), schema.MaxLength(32)),
		schema.String("amazon_url", schema.Required(), schema.WithFormat(schema.FormatURI)),
		schema.String("author", schema.Required()),
		schema.String("language", schema.Required()),
		schema.Integer("pages", schema.Required(), schema.Minimum(0), schema.Maximum(maxPages)),
		schema.String("publisher", schema.Required()),
		schema.String("title", schema.Required(), schema.MinLength(1)),
		schema.Integer("year", schema.Required(), schema.Minimum(-maxYear), schema.Maximum(maxYear)),
	)

	// isbn comes from the URL on update.
	updateBookSchema = schema.Object(
		schema.String("amazon_url", schema.Required(), schema.WithFormat(schema.FormatURI)),
		schema.String("author", schema.Required()),
		schema.String("language", schema.Required()),
		schema.Integer("pages", schema.Required(), schema.Minimum(0), schema.Maximum(maxPages)),
		schema.String("publisher", schema.Required()),
		schema.String("title", schema.Required(), schema.MinLength(1)),
		schema.Integer("year", schema.Required(), schema.Minimum(-maxYear), schema.Maximum(maxYear)),
	)

	createBookValidator = schema.MustNew(createBookSchema)
	updateBookValidator = schema.MustNew(updateBookSchema)
)
