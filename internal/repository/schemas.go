package repository

import "github.com/chesterOps/salem-server/internal/query"

// Allow-listed field tables for the query builder. A field absent here
// cannot be filtered, sorted or selected; sensitive user columns
// (password hash, refresh token) are deliberately not listed at all.

// UserSchema exposes the user collection to list reads.
var UserSchema = &query.Schema{
	Table: "users",
	Fields: map[string]query.Field{
		"id":         {Column: "id", Kind: query.KindText, Filterable: true},
		"email":      {Column: "email", Kind: query.KindText, Filterable: true, Sortable: true},
		"first_name": {Column: "first_name", Kind: query.KindText, Filterable: true, Sortable: true},
		"last_name":  {Column: "last_name", Kind: query.KindText, Filterable: true, Sortable: true},
		"role":       {Column: "role", Kind: query.KindText, Filterable: true},
		"active":     {Column: "active", Kind: query.KindBool, Filterable: true},
		"created_at": {Column: "created_at", Kind: query.KindTime, Filterable: true, Sortable: true},
		"updated_at": {Column: "updated_at", Kind: query.KindTime, Sortable: true},
	},
}

// CategorySchema exposes the category collection to list reads.
var CategorySchema = &query.Schema{
	Table: "categories",
	Fields: map[string]query.Field{
		"id":         {Column: "id", Kind: query.KindText, Filterable: true},
		"name":       {Column: "name", Kind: query.KindText, Filterable: true, Sortable: true},
		"slug":       {Column: "slug", Kind: query.KindText, Filterable: true},
		"revision":   {Column: "revision", Kind: query.KindNumber, DefaultOmit: true},
		"created_at": {Column: "created_at", Kind: query.KindTime, Filterable: true, Sortable: true},
		"updated_at": {Column: "updated_at", Kind: query.KindTime, Sortable: true},
	},
}

// ProductSchema exposes the product collection to list reads. The
// search stage matches title or tag.
var ProductSchema = &query.Schema{
	Table:       "products",
	SearchField: "title",
	TagField:    "tag",
	Fields: map[string]query.Field{
		"id":                {Column: "id", Kind: query.KindText, Filterable: true},
		"title":             {Column: "title", Kind: query.KindText, Filterable: true, Sortable: true},
		"slug":              {Column: "slug", Kind: query.KindText, Filterable: true},
		"description":       {Column: "description", Kind: query.KindText},
		"published":         {Column: "published", Kind: query.KindBool, Filterable: true},
		"sales":             {Column: "sales", Kind: query.KindNumber, Filterable: true, Sortable: true},
		"rating":            {Column: "rating", Kind: query.KindNumber, Filterable: true, Sortable: true},
		"price":             {Column: "price", Kind: query.KindNumber, Filterable: true, Sortable: true},
		"discount":          {Column: "discount", Kind: query.KindNumber, Filterable: true, Sortable: true},
		"tag":               {Column: "tag", Kind: query.KindText, Filterable: true},
		"category":          {Kind: query.KindText},
		"images":            {Kind: query.KindText},
		"images_public_ids": {Kind: query.KindText},
		"sizes":             {Kind: query.KindText},
		"colors":            {Kind: query.KindText},
		"revision":          {Column: "revision", Kind: query.KindNumber, DefaultOmit: true},
		"created_at":        {Column: "created_at", Kind: query.KindTime, Filterable: true, Sortable: true},
		"updated_at":        {Column: "updated_at", Kind: query.KindTime, Sortable: true},
	},
}
