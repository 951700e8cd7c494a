package applications

import (
	"context"

	"github.com/baristahub/baristahub-backend/database"
	"github.com/baristahub/baristahub-backend/model"
)

// ApplicationStats is the result of the applicationStats query
type ApplicationStats struct {
	Total    int `json:"total"`
	Unset    int `json:"unset"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Unknown  int `json:"unknown"`
}

// ResolveApplications lists baristas, newest registrations last, capped at limit
func ResolveApplications(ctx context.Context, store database.UserStore, status *model.ApplicationStatus, limit int) ([]*model.User, error) {
	users, err := store.ListBaristas(ctx, status)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// ResolveApplicationStats tallies every barista by status kind
func ResolveApplicationStats(ctx context.Context, store database.UserStore) (*ApplicationStats, error) {
	users, err := store.ListBaristas(ctx, nil)
	if err != nil {
		return nil, err
	}

	stats := &ApplicationStats{Total: len(users)}
	for _, user := range users {
		switch user.ApplicationStatus.Kind() {
		case model.KindUnset:
			stats.Unset++
		case model.KindPending:
			stats.Pending++
		case model.KindAccepted:
			stats.Accepted++
		case model.KindRejected:
			stats.Rejected++
		default:
			stats.Unknown++
		}
	}
	return stats, nil
}
