// Package graphql assembles the admin GraphQL schema from the per-area query modules.
package graphql

import (
	"github.com/baristahub/baristahub-backend/database"
	"github.com/baristahub/baristahub-backend/graphql/modules/applications"
	gql "github.com/graphql-go/graphql"
)

// CreateSchema builds the root query over the given store
func CreateSchema(store database.UserStore) (gql.Schema, error) {
	fields := gql.Fields{}
	for name, field := range applications.GetQueryFields(store) {
		fields[name] = field
	}

	return gql.NewSchema(gql.SchemaConfig{
		Query: gql.NewObject(gql.ObjectConfig{
			Name:   "Query",
			Fields: fields,
		}),
	})
}
