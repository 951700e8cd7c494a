// Package applications defines the GraphQL queries for barista application review.
package applications

import (
	"context"

	"github.com/baristahub/baristahub-backend/database"
	"github.com/baristahub/baristahub-backend/model"
	"github.com/graphql-go/graphql"
)

func resolveContext(p graphql.ResolveParams) context.Context {
	if p.Context != nil {
		return p.Context
	}
	return context.Background()
}

// GetQueryFields returns the application queries to be mounted in the root schema.
func GetQueryFields(store database.UserStore) graphql.Fields {
	return graphql.Fields{
		"applications": &graphql.Field{
			Type: graphql.NewList(ApplicationType),
			Args: graphql.FieldConfigArgument{
				"status": &graphql.ArgumentConfig{Type: ApplicationStatusEnum},
				"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				var status *model.ApplicationStatus
				if raw, ok := p.Args["status"].(string); ok {
					s, err := model.ParseStatusFilter(raw)
					if err != nil {
						return nil, err
					}
					status = &s
				}
				limit, _ := p.Args["limit"].(int)
				return ResolveApplications(resolveContext(p), store, status, limit)
			},
		},
		"applicationStats": &graphql.Field{
			Type: ApplicationStatsType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveApplicationStats(resolveContext(p), store)
			},
		},
	}
}
