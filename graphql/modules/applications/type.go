// Package applications defines the GraphQL types for the barista application read model.
package applications

import (
	"time"

	"github.com/baristahub/baristahub-backend/model"
	"github.com/graphql-go/graphql"
)

// ApplicationStatusEnum is the filter argument for review states. Values map to
// the strings model.ParseStatusFilter accepts.
var ApplicationStatusEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "ApplicationStatus",
	Values: graphql.EnumValueConfigMap{
		"UNSET":   &graphql.EnumValueConfig{Value: "unset", Description: "Baristas who have not applied yet"},
		"PENDING": &graphql.EnumValueConfig{Value: model.StatusPending.String()},
		"ACCEPT":  &graphql.EnumValueConfig{Value: model.StatusAccepted.String()},
		"REJECT":  &graphql.EnumValueConfig{Value: model.StatusRejected.String()},
	},
})

// applicationField resolves a field of the embedded profile, nil when none was submitted
func applicationField(get func(app *model.Application) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		user, ok := p.Source.(*model.User)
		if !ok || user.Application == nil {
			return nil, nil
		}
		return get(user.Application), nil
	}
}

func formatTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

// ApplicationType represents a barista and their submitted profile.
var ApplicationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Application",
	Fields: graphql.Fields{
		"key":      &graphql.Field{Type: graphql.String, Resolve: userField(func(u *model.User) interface{} { return u.Key })},
		"username": &graphql.Field{Type: graphql.String, Resolve: userField(func(u *model.User) interface{} { return u.Username })},
		"email":    &graphql.Field{Type: graphql.String, Resolve: userField(func(u *model.User) interface{} { return u.Email })},
		"applicationStatus": &graphql.Field{
			Type: graphql.String,
			Resolve: userField(func(u *model.User) interface{} {
				return u.ApplicationStatus.BindValue()
			}),
		},
		"fullName":        &graphql.Field{Type: graphql.String, Resolve: applicationField(func(a *model.Application) interface{} { return a.FullName })},
		"phone":           &graphql.Field{Type: graphql.String, Resolve: applicationField(func(a *model.Application) interface{} { return a.Phone })},
		"experienceYears": &graphql.Field{Type: graphql.Int, Resolve: applicationField(func(a *model.Application) interface{} { return a.ExperienceYears })},
		"bio":             &graphql.Field{Type: graphql.String, Resolve: applicationField(func(a *model.Application) interface{} { return a.Bio })},
		"submittedAt":     &graphql.Field{Type: graphql.String, Resolve: applicationField(func(a *model.Application) interface{} { return formatTime(a.SubmittedAt) })},
		"reviewedAt": &graphql.Field{
			Type: graphql.String,
			Resolve: applicationField(func(a *model.Application) interface{} {
				if a.ReviewedAt == nil {
					return nil
				}
				return formatTime(*a.ReviewedAt)
			}),
		},
		"reviewedBy": &graphql.Field{Type: graphql.String, Resolve: applicationField(func(a *model.Application) interface{} { return a.ReviewedBy })},
		"reviewNote": &graphql.Field{Type: graphql.String, Resolve: applicationField(func(a *model.Application) interface{} { return a.ReviewNote })},
	},
})

func userField(get func(u *model.User) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		user, ok := p.Source.(*model.User)
		if !ok {
			return nil, nil
		}
		return get(user), nil
	}
}

// ApplicationStatsType counts baristas per review state.
var ApplicationStatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ApplicationStats",
	Fields: graphql.Fields{
		"total":    &graphql.Field{Type: graphql.Int},
		"unset":    &graphql.Field{Type: graphql.Int},
		"pending":  &graphql.Field{Type: graphql.Int},
		"accepted": &graphql.Field{Type: graphql.Int},
		"rejected": &graphql.Field{Type: graphql.Int},
		"unknown":  &graphql.Field{Type: graphql.Int},
	},
})
